package scheduling

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/heixs21/production-management-system/internal/entity"
)

// DefaultOEE 机台未配置OEE时使用的默认值
const DefaultOEE = 0.85

// 物料节拍表：类型 -> 孔型/尺寸段 -> 厚度 -> 节拍（秒/件）
var materialTaktTable = map[string]map[string]map[string]int{
	"内外板": {
		"圆孔": {"6": 16, "8": 16, "10": 19, "12": 22, "14": 26, "16": 30},
		"扁孔": {"6": 14, "8": 14, "10": 17, "12": 20, "14": 24, "16": 28},
	},
	"套筒": {
		"20-30": {"无需无孔": 85},
		"30-40": {"无需无孔": 90},
		"40-50": {"无需无孔": 100},
		"50-58": {"无需无孔": 115},
	},
	"滚子": {
		"0-20":  {"无需无孔": 68},
		"20-30": {"无需无孔": 82},
		"30-40": {"无需无孔": 95},
		"40-50": {"无需无孔": 105},
		"50-58": {"无需无孔": 113},
	},
	"销轴": {
		"0-20":  {"无需无孔": 22},
		"20-30": {"无需无孔": 24},
		"30-40": {"无需无孔": 26},
		"40-50": {"无需无孔": 28},
		"50-58": {"无需无孔": 34},
	},
	"其他": {
		"默认": {"默认": 25},
	},
}

var (
	rollerModelRe = regexp.MustCompile(`金加工\s*(\d{3})[滚套销]`)
	thicknessRe   = regexp.MustCompile(`(\d+)x(\d+)`)
)

// IdentifyMaterialType 从物料名称识别物料类型
func IdentifyMaterialType(materialName string) string {
	if materialName == "" {
		return "其他"
	}
	switch {
	case strings.Contains(materialName, "粗加工") && strings.Contains(materialName, "链板"):
		return "内外板"
	case strings.Contains(materialName, "金加工") && strings.Contains(materialName, "套筒"):
		return "套筒"
	case strings.Contains(materialName, "金加工") && strings.Contains(materialName, "滚子"):
		return "滚子"
	case strings.Contains(materialName, "金加工") && strings.Contains(materialName, "销轴"):
		return "销轴"
	}
	return "其他"
}

// ExtractRollerModel 从"金加工 012滚子"等名称提取型号数字
func ExtractRollerModel(materialName string) string {
	m := rollerModelRe.FindStringSubmatch(materialName)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return strconv.Itoa(n)
}

// MapModelToSizeRange 将型号映射到节拍表的尺寸段
func MapModelToSizeRange(model string) string {
	n, err := strconv.Atoi(model)
	if err != nil {
		return ""
	}
	switch {
	case n >= 0 && n <= 20:
		return "0-20"
	case n <= 30:
		return "20-30"
	case n <= 40:
		return "30-40"
	case n <= 50:
		return "40-50"
	case n <= 60:
		return "50-60"
	case n <= 70:
		return "60-70"
	case n <= 80:
		return "70-80"
	}
	return ""
}

// IdentifyHoleType 识别孔型：内外板返回圆孔/扁孔，套筒滚子销轴返回尺寸段
func IdentifyHoleType(materialName string) string {
	if materialName == "" {
		return ""
	}
	if strings.Contains(materialName, "金加工") &&
		(strings.Contains(materialName, "滚子") || strings.Contains(materialName, "套筒") || strings.Contains(materialName, "销轴")) {
		return MapModelToSizeRange(ExtractRollerModel(materialName))
	}
	if strings.Contains(materialName, "圆") {
		return "圆孔"
	}
	if strings.Contains(materialName, "扁") {
		return "扁孔"
	}
	return ""
}

// ExtractThickness 从类似"100x12"的规格中提取厚度
func ExtractThickness(materialName string) string {
	if materialName == "" {
		return ""
	}
	if strings.Contains(materialName, "金加工") &&
		(strings.Contains(materialName, "滚子") || strings.Contains(materialName, "套筒") || strings.Contains(materialName, "销轴")) {
		return "无需无孔"
	}
	m := thicknessRe.FindStringSubmatch(materialName)
	if m == nil {
		return ""
	}
	return m[2]
}

// MaterialTakt 查节拍表获取物料节拍（秒/件），查不到时回退到默认值30
func MaterialTakt(materialName string) int {
	taktTable, ok := materialTaktTable[IdentifyMaterialType(materialName)]
	if !ok {
		taktTable = materialTaktTable["其他"]
	}
	holeTable, ok := taktTable[IdentifyHoleType(materialName)]
	if !ok {
		if holeTable, ok = taktTable["默认"]; !ok {
			return 30
		}
	}
	if takt, ok := holeTable[ExtractThickness(materialName)]; ok {
		return takt
	}
	if takt, ok := holeTable["默认"]; ok {
		return takt
	}
	return 30
}

// MachineOEE 机台OEE，兼容百分比（0-100）与小数（0-1）两种存法
func MachineOEE(machine *entity.Machine) float64 {
	if machine == nil || machine.OEE <= 0 {
		return DefaultOEE
	}
	if machine.OEE > 1 {
		return machine.OEE / 100
	}
	return machine.OEE
}

// ProductionEstimate 预计生产时间计算结果
type ProductionEstimate struct {
	MaterialType    string  `json:"materialType"`
	HoleType        string  `json:"holeType"`
	Thickness       string  `json:"thickness"`
	TaktSeconds     int     `json:"taktSeconds"`
	OEE             string  `json:"oee"`
	TheoreticalTime int     `json:"theoreticalTime"` // 秒
	ActualTime      int     `json:"actualTime"`      // 秒
	EstimatedHours  float64 `json:"estimatedHours"`
	EstimatedDays   float64 `json:"estimatedDays"` // 按16小时工作日
}

// EstimateProduction 根据物料名称、数量与机台OEE估算生产时间
func EstimateProduction(materialName string, quantity int, machine *entity.Machine) ProductionEstimate {
	takt := MaterialTakt(materialName)
	oee := MachineOEE(machine)

	theoretical := float64(takt * quantity)
	actual := theoretical / oee
	hours := actual / 3600

	thickness := ExtractThickness(materialName)
	if thickness != "" && thickness != "无需无孔" {
		thickness += "mm"
	}

	return ProductionEstimate{
		MaterialType:    IdentifyMaterialType(materialName),
		HoleType:        IdentifyHoleType(materialName),
		Thickness:       thickness,
		TaktSeconds:     takt,
		OEE:             fmt.Sprintf("%.1f%%", oee*100),
		TheoreticalTime: int(math.Round(theoretical)),
		ActualTime:      int(math.Round(actual)),
		EstimatedHours:  math.Round(hours*100) / 100,
		EstimatedDays:   math.Round(hours/16*100) / 100,
	}
}
