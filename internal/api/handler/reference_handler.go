package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/007-sistemas/ponto-cloud/internal/service"
	"github.com/007-sistemas/ponto-cloud/pkg/response"
)

// ReferenceHandler 参照数据模块 HTTP 处理器（只读镜像）
type ReferenceHandler struct {
	refSvc service.ReferenceService
}

// NewReferenceHandler 创建 ReferenceHandler
func NewReferenceHandler(refSvc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refSvc: refSvc}
}

// ListFacilities 获取院区列表
// GET /api/v1/facilities
func (h *ReferenceHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.refSvc.ListFacilities(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": facilities})
}

// ListSectors 获取院区下的科室列表
// GET /api/v1/facilities/:id/sectors
func (h *ReferenceHandler) ListSectors(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "院区ID不能为空")
		return
	}

	sectors, err := h.refSvc.ListSectors(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sectors})
}
