package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// OrderHandler 工单处理器
type OrderHandler struct {
	svc    *service.OrderService
	images *service.ImageService
}

func NewOrderHandler(svc *service.OrderService, images *service.ImageService) *OrderHandler {
	return &OrderHandler{svc: svc, images: images}
}

// List 工单列表
// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(GetRole(c), GetAllowedMachines(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, orders)
}

// Create 创建工单
// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	order, err := h.svc.Create(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, order)
}

// Update 更新工单。若本次更新填入实际结束日期，
// 响应附带被自动顺延的后续工单调整。
// PUT /api/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	order, adjustments, err := h.svc.Update(id, req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{
		"order":       order,
		"adjustments": adjustments,
	})
}

// Delete 删除工单
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
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

type importRequest struct {
	PasteData string `json:"pasteData" binding:"required"`
}

// Import 批量导入工单
// POST /api/orders/import
func (h *OrderHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "缺少导入数据")
		return
	}
	count, err := h.svc.Import(req.PasteData)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"imported": count})
}

type urgentRequest struct {
	Order         service.OrderRequest `json:"order"`
	TargetMachine string               `json:"targetMachine" binding:"required"`
	InsertDate    string               `json:"insertDate" binding:"required"`
}

// AddUrgent 紧急插单
// POST /api/orders/urgent
func (h *OrderHandler) AddUrgent(c *gin.Context) {
	var req urgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	req.Order.Machine = req.TargetMachine
	result, err := h.svc.AddUrgent(req.Order, req.TargetMachine, req.InsertDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, result)
}

type pauseRequest struct {
	PauseDate string `json:"pauseDate" binding:"required"`
}

// Pause 暂停工单
// POST /api/orders/:id/pause
func (h *OrderHandler) Pause(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "缺少暂停日期")
		return
	}
	order, err := h.svc.Pause(id, req.PauseDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, order)
}

type resumeRequest struct {
	NewStartDate string `json:"newStartDate" binding:"required"`
}

// Resume 恢复工单
// POST /api/orders/:id/resume
func (h *OrderHandler) Resume(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "缺少恢复日期")
		return
	}
	result, err := h.svc.Resume(id, req.NewStartDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

type reportWorkRequest struct {
	Date        string `json:"date" binding:"required"`
	Quantity    int    `json:"quantity"`
	DelayReason string `json:"delayReason"`
}

// ReportWork 工单按日报工
// POST /api/orders/:id/report
func (h *OrderHandler) ReportWork(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req reportWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	order, err := h.svc.ReportWork(id, req.Date, req.Quantity, req.DelayReason)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, order)
}

// UploadImage 上传工单图片
// POST /api/orders/:id/images
func (h *OrderHandler) UploadImage(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "缺少上传文件")
		return
	}
	src, err := file.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败")
		return
	}
	defer src.Close()

	img, err := h.images.Upload(c.Request.Context(), id, file.Filename, file.Size,
		file.Header.Get("Content-Type"), src, GetUsername(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, img)
}

// ListImages 工单图片列表
// GET /api/orders/:id/images
func (h *OrderHandler) ListImages(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	images, err := h.images.List(c.Request.Context(), id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, images)
}
