package types

// ErrorMessage 中 error 与 message 内容相同，error 供旧的前端读取
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func NewErrorMessage(code string, message string) *ErrorMessage {
	return &ErrorMessage{
		Code:    code,
		Message: message,
		Error:   message,
	}
}

type SuccessMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
