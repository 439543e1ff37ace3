package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/007-sistemas/ponto-cloud/internal/dto"
	"github.com/007-sistemas/ponto-cloud/internal/service"
	"github.com/007-sistemas/ponto-cloud/pkg/response"
)

// JustificationHandler 补卡申请模块 HTTP 处理器
type JustificationHandler struct {
	shiftSvc service.ShiftService
}

// NewJustificationHandler 创建 JustificationHandler
func NewJustificationHandler(shiftSvc service.ShiftService) *JustificationHandler {
	return &JustificationHandler{shiftSvc: shiftSvc}
}

// Submit 提交手工班次（漏打卡申诉）
// POST /api/v1/justifications
func (h *JustificationHandler) Submit(c *gin.Context) {
	var req dto.SubmitManualShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	j, err := h.shiftSvc.SubmitManualShift(c.Request.Context(), &req)
	if err != nil {
		h.handleJustificationError(c, err)
		return
	}

	response.Created(c, j)
}

// List 获取补卡申请列表
// GET /api/v1/justifications?staff_id=
func (h *JustificationHandler) List(c *gin.Context) {
	staffID := c.Query("staff_id")

	reqs, err := h.shiftSvc.ListJustifications(c.Request.Context(), staffID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": reqs})
}

// Get 获取补卡申请详情
// GET /api/v1/justifications/:id
func (h *JustificationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	j, err := h.shiftSvc.GetJustification(c.Request.Context(), id)
	if err != nil {
		h.handleJustificationError(c, err)
		return
	}

	response.OK(c, j)
}

// Decide 裁决补卡申请（批准/拒绝，恰好一次）
// POST /api/v1/justifications/:id/decision
func (h *JustificationHandler) Decide(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.DecideJustificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	j, err := h.shiftSvc.DecideJustification(c.Request.Context(), id, &req)
	if err != nil {
		h.handleJustificationError(c, err)
		return
	}

	response.OK(c, j)
}

// Delete 删除补卡申请（已批准的级联其生成的事件对）
// DELETE /api/v1/justifications/:id
func (h *JustificationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	if err := h.shiftSvc.DeleteJustification(c.Request.Context(), id); err != nil {
		h.handleJustificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleJustificationError 统一处理补卡申请模块业务错误
func (h *JustificationHandler) handleJustificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJustificationNotFound):
		response.NotFound(c, 20001, "补卡申请不存在")
	case errors.Is(err, service.ErrJustificationDecided):
		response.Conflict(c, 20002, "补卡申请已裁决")
	case errors.Is(err, service.ErrInvalidRequestedDate):
		response.BadRequest(c, 20003, "申请日期格式无效")
	case errors.Is(err, service.ErrInvalidRequestedTime):
		response.BadRequest(c, 20004, "申请时刻格式无效")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 20006, "裁决类型无效")
	case errors.Is(err, service.ErrMissingRequestedTime):
		response.BadRequest(c, 20007, "申请进/出时刻不能为空")
	default:
		response.InternalError(c)
	}
}
