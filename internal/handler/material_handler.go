package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// MaterialHandler 物料处理器
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// List 物料列表
// GET /api/materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.svc.List()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, materials)
}

// Create 创建物料
// POST /api/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	material, err := h.svc.Create(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, material)
}

// Update 更新物料
// PUT /api/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	material, err := h.svc.Update(id, req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, material)
}

// Delete 删除物料
// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
