package api

import (
	"jansta/common/http"
	"jansta/runtime/game/application/service"
)

// Handler 持有路由用到的服务
type Handler struct {
	sessions service.SessionService
}

func NewHandler(sessions service.SessionService) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, h *Handler) {
	server.GET("/ping", PingHandler)
	server.GET("/health", h.HealthHandler)

	v1 := server.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		sessions.POST("", h.CreateSessionHandler)
		sessions.GET("", h.ListSessionsHandler)
		sessions.GET("/:id", h.GetSessionHandler)
		sessions.DELETE("/:id", h.DeleteSessionHandler)
		sessions.POST("/:id/end", h.EndSessionHandler)
		sessions.GET("/:id/totals", h.SessionTotalsHandler)
		sessions.GET("/:id/resume", h.ResumeMatchHandler)

		matches := sessions.Group("/:id/matches")
		matches.POST("", h.StartMatchHandler)
		matches.GET("/:mid/summary", h.MatchSummaryHandler)
		matches.POST("/:mid/hands", h.RecordHandHandler)
		matches.PUT("/:mid/hands/:index", h.EditHandHandler)
		matches.DELETE("/:mid/hands/last", h.UndoLastHandHandler)
		matches.POST("/:mid/adjustments", h.AddAdjustmentHandler)
		matches.DELETE("/:mid/adjustments/:aid", h.RemoveAdjustmentHandler)
	}
}
