package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// 上传表单比文件本身略大
const uploadBodyLimit = "12M"

type route struct {
	method      string
	path        string
	handler     echo.HandlerFunc
	protected   bool // 需要管理员身份
	middlewares []echo.MiddlewareFunc
}

type RouteOptions struct {
	Guard        echo.MiddlewareFunc // 认证中间件，必须提供
	LoginLimiter echo.MiddlewareFunc // 登录接口的限流，可选
}

func (a *App) routes(opts RouteOptions) []route {
	var loginMiddlewares []echo.MiddlewareFunc
	if opts.LoginLimiter != nil {
		loginMiddlewares = append(loginMiddlewares, opts.LoginLimiter)
	}

	return []route{
		// 管理员
		{method: http.MethodPost, path: "/adminLogin", handler: a.AdminLogin, middlewares: loginMiddlewares},
		{method: http.MethodGet, path: "/adminDashboard", handler: a.AdminDashboard, protected: true},

		// 简历
		{method: http.MethodPost, path: "/uploadResume", handler: a.UploadResume, protected: true, middlewares: []echo.MiddlewareFunc{middleware.BodyLimit(uploadBodyLimit)}},
		{method: http.MethodGet, path: "/getResume", handler: a.GetResume},
		{method: http.MethodGet, path: "/downloadResume", handler: a.DownloadResume},
		{method: http.MethodGet, path: "/viewResume", handler: a.ViewResume},
		{method: http.MethodDelete, path: "/deleteResume", handler: a.DeleteResume, protected: true},

		// 项目
		{method: http.MethodGet, path: "/projects", handler: a.ProjectList},
		{method: http.MethodGet, path: "/projects/:id", handler: a.ProjectGet},
		{method: http.MethodPost, path: "/projects", handler: a.ProjectCreate, protected: true},
		{method: http.MethodPut, path: "/projects/:id", handler: a.ProjectUpdate, protected: true},
		{method: http.MethodDelete, path: "/projects/:id", handler: a.ProjectDelete, protected: true},
	}
}

// Register 把所有接口挂到 g 上，受保护的接口统一套上认证中间件
func (a *App) Register(g *echo.Group, opts RouteOptions) {
	for _, r := range a.routes(opts) {
		var mws []echo.MiddlewareFunc
		if r.protected {
			mws = append(mws, opts.Guard)
		}
		mws = append(mws, r.middlewares...)

		g.Add(r.method, r.path, r.handler, mws...)
	}
}
