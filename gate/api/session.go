package api

import (
	"jansta/common/http"
	"jansta/runtime/game/application/service"
)

// CreateSessionHandler 创建会话
func (h *Handler) CreateSessionHandler(c *http.Context) error {
	var req service.CreateSessionReq
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	session, err := h.sessions.CreateSession(c.Ctx(), &req)
	if err != nil {
		return writeError(c, err)
	}
	c.SuccessWithMessage("会话创建成功", session)
	return nil
}

// ListSessionsHandler 会话列表 ?limit=&offset=
func (h *Handler) ListSessionsHandler(c *http.Context) error {
	list, err := h.sessions.ListSessions(c.Ctx(), c.GetQueryInt("limit", 20), c.GetQueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(map[string]interface{}{
		"sessions": list,
		"total":    len(list),
	})
	return nil
}

func (h *Handler) GetSessionHandler(c *http.Context) error {
	session, err := h.sessions.GetSession(c.Ctx(), c.GetParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(session)
	return nil
}

func (h *Handler) DeleteSessionHandler(c *http.Context) error {
	if err := h.sessions.DeleteSession(c.Ctx(), c.GetParam("id")); err != nil {
		return writeError(c, err)
	}
	c.SuccessWithMessage("会话已删除", nil)
	return nil
}

// EndSessionHandler 结束会话，body 可省略
func (h *Handler) EndSessionHandler(c *http.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BindJSON(&req)
	session, err := h.sessions.EndSession(c.Ctx(), c.GetParam("id"), req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	c.Success(session)
	return nil
}

func (h *Handler) SessionTotalsHandler(c *http.Context) error {
	totals, err := h.sessions.SessionTotals(c.Ctx(), c.GetParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(totals)
	return nil
}

// ResumeMatchHandler 继续进行中的半庄
func (h *Handler) ResumeMatchHandler(c *http.Context) error {
	m, err := h.sessions.ResumeMatch(c.Ctx(), c.GetParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Success(m)
	return nil
}
