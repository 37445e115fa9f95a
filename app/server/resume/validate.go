package resume

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload 是一次上传请求中的文件
type Upload struct {
	OriginalName string
	MediaType    string // 客户端声明的类型
	Size         int64  // 客户端声明的大小，未知时为 -1
	Content      io.Reader
}

type allowedType struct {
	ext     string   // 默认扩展名
	exts    []string // 可以沿用的原始扩展名
	sniffed []string // 内容嗅探结果（或其父类型）可以接受的值
}

var allowedTypes = map[string]allowedType{
	constants.MIMETypePDF: {
		ext:     ".pdf",
		exts:    []string{".pdf"},
		sniffed: []string{constants.MIMETypePDF},
	},
	constants.MIMETypeDOCX: {
		ext:     ".docx",
		exts:    []string{".docx"},
		sniffed: []string{constants.MIMETypeDOCX, "application/zip"},
	},
	constants.MIMETypeDOC: {
		ext:     ".doc",
		exts:    []string{".doc"},
		sniffed: []string{constants.MIMETypeDOC, "application/x-ole-storage"},
	},
}

var errNotAllowed = apperrors.New(apperrors.UploadRejected, "Only PDF and DOC/DOCX files are allowed")

type validated struct {
	data         []byte
	mediaType    string
	ext          string
	originalName string
}

// validate 在写入任何东西之前检查类型和大小
func validate(up Upload) (*validated, error) {
	if up.Content == nil {
		return nil, apperrors.New(apperrors.Validation, "No file uploaded")
	}

	if up.Size > constants.ResumeMaxSize {
		return nil, tooLarge()
	}

	mediaType, _, err := mime.ParseMediaType(up.MediaType)
	if err != nil {
		return nil, errNotAllowed
	}
	mediaType = strings.ToLower(mediaType)

	allowed, ok := allowedTypes[mediaType]
	if !ok {
		return nil, errNotAllowed
	}

	// 多读一个字节来判断是否超限
	data, err := io.ReadAll(io.LimitReader(up.Content, constants.ResumeMaxSize+1))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to read uploaded file")
	}
	if len(data) > constants.ResumeMaxSize {
		return nil, tooLarge()
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.UploadRejected, "Uploaded file is empty")
	}

	if !sniffMatches(data, allowed.sniffed) {
		return nil, apperrors.New(apperrors.UploadRejected, "File content does not match its declared type")
	}

	originalName := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(up.OriginalName, `\`, "/")))
	if originalName == "/" || originalName == "." {
		originalName = "resume" + allowed.ext
	}

	ext := allowed.ext
	origExt := strings.ToLower(filepath.Ext(originalName))
	for _, e := range allowed.exts {
		if origExt == e {
			ext = origExt
			break
		}
	}

	return &validated{
		data:         data,
		mediaType:    mediaType,
		ext:          ext,
		originalName: originalName,
	}, nil
}

func tooLarge() error {
	return apperrors.New(apperrors.UploadRejected, fmt.Sprintf("File exceeds the %d MiB limit", constants.ResumeMaxSize>>20))
}

func sniffMatches(data []byte, accepted []string) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// generateName 不使用原始文件名，避免冲突和路径穿越
func generateName(now time.Time, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", constants.ResumeFilePrefix, now.UnixMilli(), random, ext)
}
