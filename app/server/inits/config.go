package inits

import (
	"fmt"
	"os"
	"portfolio-backend/app/server/config"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func Config() (*config.Config, error) {
	// 有 .env 的话先加载，没有也无所谓
	_ = godotenv.Load()

	var cfg config.Config

	// 手动配置映射，如果这里有什么自动映射工具就好了， viper 好像处理这种基于环境变量的配置也不是很方便
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":5000" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if prefix, exist := os.LookupEnv("API_PREFIX"); !exist {
		cfg.System.APIPrefix = "/v1/portfolio"
	} else {
		cfg.System.APIPrefix = "/" + strings.Trim(prefix, "/")
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	// redis 是可选的
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	if origins, exist := os.LookupEnv("CORS_ORIGINS"); !exist || origins == "" {
		cfg.System.CORSOrigins = []string{"*"}
	} else {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.System.CORSOrigins = append(cfg.System.CORSOrigins, origin)
			}
		}
	}

	if limitStr, exist := os.LookupEnv("LOGIN_RATE_LIMIT"); !exist {
		cfg.System.LoginRateLimit = 5
	} else if limit, err := strconv.ParseFloat(limitStr, 64); err != nil || limit <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT should be a positive number")
	} else {
		cfg.System.LoginRateLimit = limit
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if email, exist := os.LookupEnv("ADMIN_EMAIL"); !exist {
		return nil, fmt.Errorf("ADMIN_EMAIL environment variable not set")
	} else {
		cfg.Admin.Email = strings.ToLower(strings.TrimSpace(email))
	}

	if password, exist := os.LookupEnv("ADMIN_PASSWORD"); !exist {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable not set")
	} else {
		cfg.Admin.Password = password
	}

	cfg.Admin.Mobile = strings.TrimSpace(os.Getenv("ADMIN_MOBILE"))

	// 存储
	if driver, exist := os.LookupEnv("STORAGE_DRIVER"); !exist {
		cfg.Storage.Driver = "local"
	} else {
		cfg.Storage.Driver = strings.ToLower(driver)
	}

	if uploadDir, exist := os.LookupEnv("UPLOAD_DIR"); !exist {
		cfg.Storage.UploadDir = "./uploads"
	} else {
		cfg.Storage.UploadDir = uploadDir
	}

	switch cfg.Storage.Driver {
	case "local":
	case "s3":
		if bucket, exist := os.LookupEnv("S3_BUCKET"); !exist {
			return nil, fmt.Errorf("S3_BUCKET environment variable not set")
		} else {
			cfg.Storage.S3.Bucket = bucket
		}
		if region, exist := os.LookupEnv("S3_REGION"); !exist {
			cfg.Storage.S3.Region = "auto"
		} else {
			cfg.Storage.S3.Region = region
		}
		cfg.Storage.S3.Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.Storage.S3.AccessKey = os.Getenv("S3_ACCESS_KEY")
		cfg.Storage.S3.SecretKey = os.Getenv("S3_SECRET_KEY")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Storage.Driver)
	}

	return &cfg, nil
}
