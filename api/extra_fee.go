package api

import (
	"strconv"

	"rental/database"
	"rental/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExtraFeeHandler 附加费用处理器
type ExtraFeeHandler struct{}

// NewExtraFeeHandler 创建附加费用处理器
func NewExtraFeeHandler() *ExtraFeeHandler {
	return &ExtraFeeHandler{}
}

// CreateExtraFeeRequest 创建附加费用请求
type CreateExtraFeeRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"Garbage Collection"`
	Details string `json:"details" binding:"omitempty,max=255"`
	Amount  string `json:"amount" binding:"required" example:"300.00"`
}

// UpdateExtraFeeRequest 更新附加费用请求
type UpdateExtraFeeRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Details *string `json:"details" binding:"omitempty,max=255"`
	Amount  *string `json:"amount"`
}

// Create 创建附加费用
// @Summary 创建附加费用
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExtraFeeRequest true "费用信息"
// @Success 200 {object} Response{data=models.ExtraFee} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/staff/extra-fees [post]
func (h *ExtraFeeHandler) Create(c *gin.Context) {
	var req CreateExtraFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		BadRequest(c, "金额格式错误")
		return
	}

	var existing models.ExtraFee
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "费用名称已存在")
		return
	}

	fee := models.ExtraFee{
		Name:    req.Name,
		Details: req.Details,
		Amount:  amount,
	}
	if err := database.DB.Create(&fee).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建费用失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", fee)
}

// List 获取附加费用列表
// @Summary 获取附加费用列表
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.ExtraFee} "获取成功"
// @Router /api/v1/staff/extra-fees [get]
func (h *ExtraFeeHandler) List(c *gin.Context) {
	var fees []models.ExtraFee
	if err := database.DB.Order("name ASC").Find(&fees).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, fees)
}

// Update 更新附加费用
// @Summary 更新附加费用
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "费用ID"
// @Param request body UpdateExtraFeeRequest true "费用信息"
// @Success 200 {object} Response{data=models.ExtraFee} "更新成功"
// @Failure 404 {object} Response "费用不存在"
// @Router /api/v1/staff/extra-fees/{id} [put]
func (h *ExtraFeeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var fee models.ExtraFee
	if err := database.DB.First(&fee, id).Error; err != nil {
		NotFound(c, "费用不存在")
		return
	}

	var req UpdateExtraFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil || !amount.IsPositive() {
			BadRequest(c, "金额格式错误")
			return
		}
		updates["amount"] = amount
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&fee).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&fee, fee.ID)
	SuccessWithMessage(c, "更新成功", fee)
}

// Delete 删除附加费用
// @Summary 删除附加费用
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "费用ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "费用不存在"
// @Router /api/v1/staff/extra-fees/{id} [delete]
func (h *ExtraFeeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var fee models.ExtraFee
	if err := database.DB.First(&fee, id).Error; err != nil {
		NotFound(c, "费用不存在")
		return
	}

	if err := database.DB.Delete(&fee).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
