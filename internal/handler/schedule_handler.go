package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// ScheduleHandler 排产看板处理器
type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// Board 甘特看板
// GET /api/schedule/board
func (h *ScheduleHandler) Board(c *gin.Context) {
	board, err := h.svc.GetBoard(GetRole(c), GetAllowedMachines(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, board)
}

// Cell 某机台某天的工单
// GET /api/schedule/cell?machine=xxx&date=YYYY-MM-DD
func (h *ScheduleHandler) Cell(c *gin.Context) {
	machine := c.Query("machine")
	date := c.Query("date")
	if machine == "" || date == "" {
		BadRequest(c, "缺少机台或日期参数")
		return
	}
	orders, err := h.svc.GetCell(machine, date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, orders)
}

// Estimate 生产时长估算
// GET /api/schedule/estimate?materialName=xxx&quantity=100&machine=xxx
func (h *ScheduleHandler) Estimate(c *gin.Context) {
	materialName := c.Query("materialName")
	quantity, _ := strconv.Atoi(c.Query("quantity"))
	machine := c.Query("machine")

	est, err := h.svc.Estimate(materialName, quantity, machine)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, est)
}
