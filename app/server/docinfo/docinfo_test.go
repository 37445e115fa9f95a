package docinfo

import (
	"archive/zip"
	"bytes"
	"portfolio-backend/app/server/constants"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestInspectDOCXExcerpt(t *testing.T) {
	info, err := Inspect(constants.MIMETypeDOCX, buildDOCX(t, "Jane Doe &amp; Co. Backend engineer"))
	require.NoError(t, err)

	assert.Equal(t, 0, info.PageCount)
	assert.Contains(t, info.Excerpt, "Jane Doe & Co. Backend engineer")
}

func TestInspectBrokenPDF(t *testing.T) {
	info, err := Inspect(constants.MIMETypePDF, []byte("%PDF-1.4 this is not really a pdf"))
	assert.Error(t, err)
	assert.Equal(t, Info{}, info)
}

func TestInspectDOCIsSkipped(t *testing.T) {
	info, err := Inspect(constants.MIMETypeDOC, []byte{0xD0, 0xCF, 0x11, 0xE0})
	require.NoError(t, err)
	assert.Equal(t, Info{}, info)
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("word ", 200)

	got := excerpt(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), ExcerptLength+1)

	assert.Equal(t, "a b c", excerpt("  a \n\t b   c "))
}
