package api

import (
	"errors"
	"time"

	"jansta/common/http"
	"jansta/core/domain/entity"
	"jansta/core/domain/repository"
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]interface{}{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "jansta",
	})
	return nil
}

// HealthHandler 健康检查
func (h *Handler) HealthHandler(c *http.Context) error {
	if _, err := h.sessions.ListSessions(c.Ctx(), 1, 0); err != nil {
		c.ErrorWithCode(50001, "存储不可用")
		return nil
	}
	c.Success(map[string]interface{}{
		"healthy":   true,
		"timestamp": time.Now().Unix(),
	})
	return nil
}

// writeError 业务错误映射为响应码，其余错误交给 wrapHandler 按 500 处理
func writeError(c *http.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, repository.ErrAdjustmentNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, repository.ErrSessionEnded),
		errors.Is(err, repository.ErrMatchEnded),
		errors.Is(err, repository.ErrMatchInProgress),
		errors.Is(err, repository.ErrNoHands):
		c.Conflict(err.Error())
	case errors.Is(err, repository.ErrParticipants),
		errors.Is(err, repository.ErrHandOutOfRange),
		errors.Is(err, repository.ErrInvalidSeat),
		errors.Is(err, repository.ErrInvalidAdjustment),
		errors.Is(err, entity.ErrUnknownOutcome):
		c.BadRequest(err.Error())
	default:
		return err
	}
	return nil
}
