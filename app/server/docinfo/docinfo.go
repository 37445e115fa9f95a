// Package docinfo pulls a little metadata out of uploaded résumés: the page
// count of a PDF and a short plain-text excerpt. Inspection is best effort;
// callers treat any error as "no information".
package docinfo

import (
	"bytes"
	"fmt"
	"html"
	"portfolio-backend/app/server/constants"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const ExcerptLength = 280 // runes

type Info struct {
	PageCount int
	Excerpt   string
}

func Inspect(mediaType string, data []byte) (info Info, err error) {
	// pdf 解析库遇到损坏的文件可能会 panic
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("inspect %s: panic: %v", mediaType, r)
		}
	}()

	switch mediaType {
	case constants.MIMETypePDF:
		return inspectPDF(data)
	case constants.MIMETypeDOCX:
		return inspectDOCX(data)
	default:
		// 老式 .doc 没有可用的解析器
		return Info{}, nil
	}
}

func inspectPDF(data []byte) (Info, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("failed to read pdf: %w", err)
	}

	info := Info{PageCount: r.NumPage()}

	var text strings.Builder
	for i := 1; i <= info.PageCount && text.Len() < ExcerptLength*4; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteByte(' ')
	}

	info.Excerpt = excerpt(text.String())
	return info, nil
}

var xmlTag = regexp.MustCompile(`<[^>]*>`)

func inspectDOCX(data []byte) (Info, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent 返回的是 document.xml 原文
	text := xmlTag.ReplaceAllString(doc.Editable().GetContent(), " ")
	return Info{Excerpt: excerpt(html.UnescapeString(text))}, nil
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= ExcerptLength {
		return text
	}
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "…"
}
