package constants

// 简历文件
const (
	ResumeFilePrefix = "resume" // 生成文件名的前缀
	ResumeMaxSize    = 10 << 20 // 10 MiB
	ResumeFormField  = "resume" // 上传表单中的字段名
)

// 允许上传的简历类型
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOC  = "application/msword"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)
