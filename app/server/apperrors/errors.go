package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	StorageFault Kind = iota // 未标记的错误一律视为存储故障
	Validation
	Unauthenticated
	InvalidToken
	NotFound
	ArtifactMissing
	UploadRejected
)

var kindInfo = map[Kind]struct {
	code   string
	status int
}{
	StorageFault:    {"STORAGE_FAULT", http.StatusInternalServerError},
	Validation:      {"VALIDATION_FAILED", http.StatusBadRequest},
	Unauthenticated: {"UNAUTHENTICATED", http.StatusUnauthorized},
	InvalidToken:    {"INVALID_TOKEN", http.StatusUnauthorized},
	NotFound:        {"NOT_FOUND", http.StatusNotFound},
	ArtifactMissing: {"ARTIFACT_MISSING", http.StatusNotFound},
	UploadRejected:  {"UPLOAD_REJECTED", http.StatusBadRequest},
}

func (k Kind) Code() string {
	return kindInfo[k].code
}

func (k Kind) Status() int {
	return kindInfo[k].status
}

func (k Kind) String() string {
	return k.Code()
}

// Error 是会被 HTTP 层转换成响应的错误
type Error struct {
	Kind    Kind
	Message string // 返回给调用方的信息
	Err     error  // 内部原因，只记日志
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StorageFault
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf 返回可以给调用方看的信息，未标记的错误不会泄露内部细节
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return http.StatusText(KindOf(err).Status())
}
