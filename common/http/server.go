package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jansta/common/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
)

type HandlerFunc func(*Context) error

// HttpServer HTTP 服务器封装
type HttpServer struct {
	engine      *gin.Engine
	server      *http.Server
	port        int
	corsOrigins []string
}

// ServerOption 服务器配置选项
type ServerOption func(*HttpServer)

// WithPort 设置端口
func WithPort(port int) ServerOption {
	return func(s *HttpServer) {
		s.port = port
	}
}

// WithMode 设置运行模式（debug / release / test）
func WithMode(mode string) ServerOption {
	return func(s *HttpServer) {
		switch mode {
		case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
			gin.SetMode(mode)
		default:
			gin.SetMode(gin.ReleaseMode)
		}
	}
}

// WithCorsOrigins 允许跨域的来源，为空时保持默认 *
func WithCorsOrigins(origins ...string) ServerOption {
	return func(s *HttpServer) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewHttpServer 创建 HTTP 服务器
func NewHttpServer(opts ...ServerOption) *HttpServer {
	server := &HttpServer{
		port:        8080,
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(server)
	}

	// gin.New 要在 SetMode 之后
	server.engine = gin.New()
	server.engine.Use(accessLog())
	server.engine.Use(gin.Recovery())
	server.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", server.port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server
}

// wrapHandler 包装处理函数，返回的 error 统一按 500 处理
func (s *HttpServer) wrapHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := newContext(c)
		if err := handler(ctx); err != nil {
			log.Error("%s %s 处理失败: %v", ctx.Method(), ctx.Path(), err)
			ctx.InternalServerError(err.Error())
		}
	}
}

// accessLog 请求日志
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// GET 注册 GET 路由
func (s *HttpServer) GET(path string, handler HandlerFunc) {
	s.engine.GET(path, s.wrapHandler(handler))
}

// Group 创建路由组
func (s *HttpServer) Group(relativePath string) *RouterGroup {
	return &RouterGroup{
		group:  s.engine.Group(relativePath),
		server: s,
	}
}

// RouterGroup 路由组封装
type RouterGroup struct {
	group  *gin.RouterGroup
	server *HttpServer
}

func (rg *RouterGroup) GET(path string, handler HandlerFunc) {
	rg.group.GET(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) POST(path string, handler HandlerFunc) {
	rg.group.POST(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) PUT(path string, handler HandlerFunc) {
	rg.group.PUT(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) DELETE(path string, handler HandlerFunc) {
	rg.group.DELETE(path, rg.server.wrapHandler(handler))
}

// Group 创建子路由组
func (rg *RouterGroup) Group(relativePath string) *RouterGroup {
	return &RouterGroup{
		group:  rg.group.Group(relativePath),
		server: rg.server,
	}
}

// Handler 带 CORS 的完整处理链，PWA 前端跨域访问
func (s *HttpServer) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Authorization", "X-Requested-With"}),
	)(s.engine)
}

// Start 启动服务器（阻塞），正常关闭或已经 Shutdown 时返回 nil
func (s *HttpServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *HttpServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// GetPort 获取端口
func (s *HttpServer) GetPort() int {
	return s.port
}
