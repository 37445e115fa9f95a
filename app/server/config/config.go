package config

type Config struct {
	System struct {
		IsProd                bool     // 是否为生产环境
		Listen                string   // 监听地址
		APIPrefix             string   // 所有接口共享的路径前缀
		DBConnectionString    string   // Postgres 数据库的连接字符串
		RedisConnectionString string   // Redis 数据库的连接字符串，留空则不启用缓存
		CORSOrigins           []string // 允许跨域的来源
		LoginRateLimit        float64  // 登录接口每个 IP 每秒允许的请求数
	}
	Security struct {
		SignatureSecretKey string // 签名密钥，用于产生签名（例如 JWT ），更新会导致旧有会话失效，但不影响使用
	}
	Admin struct {
		Email    string // 初始管理员邮箱
		Mobile   string // 初始管理员手机号
		Password string // 初始管理员密码，只在首次创建时使用
	}
	Storage struct {
		Driver    string // local 或 s3
		UploadDir string // local 模式下简历文件的存放目录
		S3        S3Config
	}
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // 兼容 S3 的服务（例如 R2 ）需要指定
	AccessKey string
	SecretKey string
}
