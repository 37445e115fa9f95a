package constants

import "time"

const (
	CacheKeyResumeMeta  = "portfolio:resume:meta"
	CacheKeyProjectList = "portfolio:projects:list"
)

const (
	CacheExpireResumeMeta  = 5 * time.Minute
	CacheExpireProjectList = 10 * time.Minute
)
