package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// MachineHandler 机台处理器
type MachineHandler struct {
	svc *service.MachineService
}

func NewMachineHandler(svc *service.MachineService) *MachineHandler {
	return &MachineHandler{svc: svc}
}

// List 机台列表
// GET /api/machines
func (h *MachineHandler) List(c *gin.Context) {
	machines, err := h.svc.List(GetRole(c), GetAllowedMachines(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, machines)
}

// Create 创建机台
// POST /api/machines
func (h *MachineHandler) Create(c *gin.Context) {
	var req service.MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	machine, err := h.svc.Create(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, machine)
}

// Update 更新机台
// PUT /api/machines/:id
func (h *MachineHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req service.MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	machine, err := h.svc.Update(id, req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, machine)
}

// Delete 删除机台
// DELETE /api/machines/:id
func (h *MachineHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, nil)
}

// ListShifts 机台班次列表
// GET /api/machines/:id/shifts
func (h *MachineHandler) ListShifts(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	shifts, err := h.svc.ListShifts(id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, shifts)
}

// AddShift 添加班次
// POST /api/machines/:id/shifts
func (h *MachineHandler) AddShift(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req service.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	shift, err := h.svc.AddShift(id, req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, shift)
}

// DeleteShift 删除班次
// DELETE /api/machines/:id/shifts/:shiftId
func (h *MachineHandler) DeleteShift(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	shiftID, ok := ParseID(c, "shiftId")
	if !ok {
		return
	}
	if err := h.svc.DeleteShift(id, shiftID); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
