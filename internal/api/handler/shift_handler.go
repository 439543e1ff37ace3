package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/007-sistemas/ponto-cloud/internal/dto"
	"github.com/007-sistemas/ponto-cloud/internal/service"
	"github.com/007-sistemas/ponto-cloud/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// ListShifts 获取班次列表（最近在前）
// GET /api/v1/shifts?staff_id=
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shifts, err := h.shiftSvc.ListShifts(c.Request.Context(), req.StaffID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": shifts, "sync": h.shiftSvc.SyncState()})
}

// StreamShifts 班次流（SSE）：每轮对账完成后推送完整班次列表
// GET /api/v1/shifts/stream?staff_id=
func (h *ShiftHandler) StreamShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ch, cancel := h.shiftSvc.Subscribe(req.StaffID)
	defer cancel()

	// 新订阅触发一轮对账，让客户端尽快收到首帧
	h.shiftSvc.Refresh()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case shifts, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("shifts", shifts)
			return true
		}
	})
}

// Refresh 请求一次显式对账（非阻塞）
// POST /api/v1/shifts/refresh
func (h *ShiftHandler) Refresh(c *gin.Context) {
	h.shiftSvc.Refresh()
	response.OK(c, h.shiftSvc.SyncState())
}

// SyncState 获取对账状态
// GET /api/v1/shifts/sync-state
func (h *ShiftHandler) SyncState(c *gin.Context) {
	response.OK(c, h.shiftSvc.SyncState())
}

// DeletePunchEvent 删除打卡事件（级联配对事件）
// DELETE /api/v1/punch-events/:id
func (h *ShiftHandler) DeletePunchEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "事件ID不能为空")
		return
	}

	if err := h.shiftSvc.DeletePunchEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPunchEventNotFound) {
			response.NotFound(c, 20005, "打卡事件不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
