package api

import (
	"strconv"

	"jansta/common/http"
	"jansta/runtime/game/application/service"
)

// StartMatchHandler 开始半庄，body 可省略（按参加者顺序、东起）
func (h *Handler) StartMatchHandler(c *http.Context) error {
	var req service.StartMatchReq
	_ = c.BindJSON(&req)
	m, err := h.sessions.StartMatch(c.Ctx(), c.GetParam("id"), &req)
	if err != nil {
		return writeError(c, err)
	}
	c.SuccessWithMessage("半庄开始", m)
	return nil
}

func (h *Handler) MatchSummaryHandler(c *http.Context) error {
	summary, err := h.sessions.MatchSummary(c.Ctx(), c.GetParam("id"), c.GetParam("mid"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(summary)
	return nil
}

// RecordHandHandler 记录一局
func (h *Handler) RecordHandHandler(c *http.Context) error {
	var req service.HandReq
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	m, err := h.sessions.RecordHand(c.Ctx(), c.GetParam("id"), c.GetParam("mid"), &req)
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}

// EditHandHandler 修改第 index 局（从 0 开始）
func (h *Handler) EditHandHandler(c *http.Context) error {
	index, err := strconv.Atoi(c.GetParam("index"))
	if err != nil {
		c.BadRequest("局下标错误")
		return nil
	}
	var req service.HandReq
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	m, err := h.sessions.EditHand(c.Ctx(), c.GetParam("id"), c.GetParam("mid"), index, &req)
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}

func (h *Handler) UndoLastHandHandler(c *http.Context) error {
	m, err := h.sessions.UndoLastHand(c.Ctx(), c.GetParam("id"), c.GetParam("mid"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}

func (h *Handler) AddAdjustmentHandler(c *http.Context) error {
	var req service.AdjustmentReq
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	m, err := h.sessions.AddAdjustment(c.Ctx(), c.GetParam("id"), c.GetParam("mid"), &req)
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}

func (h *Handler) RemoveAdjustmentHandler(c *http.Context) error {
	m, err := h.sessions.RemoveAdjustment(c.Ctx(), c.GetParam("id"), c.GetParam("mid"), c.GetParam("aid"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}
