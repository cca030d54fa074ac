package api

import (
	"errors"
	"strconv"
	"time"

	"rental/config"
	"rental/database"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UnitGroupHandler 单元组处理器
type UnitGroupHandler struct {
	cfg *config.Config
}

// NewUnitGroupHandler 创建单元组处理器
func NewUnitGroupHandler(cfg *config.Config) *UnitGroupHandler {
	return &UnitGroupHandler{cfg: cfg}
}

// CreateUnitGroupRequest 创建单元组请求
type CreateUnitGroupRequest struct {
	HouseID            uint   `json:"house_id" binding:"required" example:"1"`
	Name               string `json:"name" binding:"required,max=100" example:"Second Floor"`
	AbbreviatedName    string `json:"abbreviated_name" binding:"required,max=20" example:"SF"`
	Description        string `json:"description"`
	NumberOfUnits      int    `json:"number_of_units" binding:"required,gt=0" example:"10"`
	MonthlyRent        string `json:"monthly_rent" binding:"required" example:"5000.00"`
	DepositAmount      string `json:"deposit_amount" example:"5000.00"`
	UnitNameFormat     string `json:"unit_name_format" example:"%(name)s Room %(unit_number)s"`
	UnitAbbrNameFormat string `json:"unit_abbreviated_name_format" example:"%(abbreviated_name)sR%(unit_number)s"`
}

// UpdateUnitGroupRequest 更新单元组请求
// 命名模板不可修改，已生成的单元名无法随模板同步变更
type UpdateUnitGroupRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	Description   *string `json:"description"`
	NumberOfUnits *int    `json:"number_of_units" binding:"omitempty,gt=0"`
	MonthlyRent   *string `json:"monthly_rent"`
	DepositAmount *string `json:"deposit_amount"`
}

// UnitGroupView 单元组视图，附带空置数
type UnitGroupView struct {
	models.UnitGroup
	NumberOfVacantUnits int64 `json:"number_of_vacant_units"`
}

func unitGroupView(group models.UnitGroup) UnitGroupView {
	var vacant int64
	database.DB.Model(&models.Unit{}).
		Where("unit_group_id = ? AND occupied_status = ?", group.ID, models.UnitStatusVacant).
		Count(&vacant)
	return UnitGroupView{UnitGroup: group, NumberOfVacantUnits: vacant}
}

// Create 创建单元组
// @Summary 创建单元组
// @Description 创建单元组并按命名模板生成其下所有单元。模板占位符不在允许集合内时拒绝保存。
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUnitGroupRequest true "单元组信息"
// @Success 200 {object} Response{data=UnitGroupView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "房产不存在"
// @Router /api/v1/staff/unit-groups [post]
func (h *UnitGroupHandler) Create(c *gin.Context) {
	var req CreateUnitGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var house models.House
	if err := database.DB.First(&house, req.HouseID).Error; err != nil {
		NotFound(c, "房产不存在")
		return
	}

	monthlyRent, err := decimal.NewFromString(req.MonthlyRent)
	if err != nil || !monthlyRent.IsPositive() {
		BadRequest(c, "月租金额格式错误")
		return
	}
	depositAmount := decimal.Zero
	if req.DepositAmount != "" {
		depositAmount, err = decimal.NewFromString(req.DepositAmount)
		if err != nil || depositAmount.IsNegative() {
			BadRequest(c, "押金金额格式错误")
			return
		}
	}

	group := models.UnitGroup{
		HouseID:            req.HouseID,
		Name:               req.Name,
		AbbreviatedName:    req.AbbreviatedName,
		Description:        req.Description,
		NumberOfUnits:      req.NumberOfUnits,
		MonthlyRent:        monthlyRent,
		DepositAmount:      depositAmount,
		UnitNameFormat:     req.UnitNameFormat,
		UnitAbbrNameFormat: req.UnitAbbrNameFormat,
	}

	// 校验命名模板后再入库
	if err := group.ValidateFormats(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Create(&group).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建单元组失败"))
		return
	}

	// 按目标数量生成单元
	if _, err := service.SyncUnits(database.DB, &group); err != nil {
		InternalError(c, SafeErrorMessage(err, "生成单元失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", unitGroupView(group))
}

// List 获取单元组列表
// @Summary 获取单元组列表
// @Description 获取单元组列表，可按房产筛选，附带每组的空置单元数
// @Tags 房产
// @Produce json
// @Security BearerAuth
// @Param house_id query int false "房产ID"
// @Success 200 {object} Response{data=[]UnitGroupView} "获取成功"
// @Router /api/v1/unit-groups [get]
func (h *UnitGroupHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.UnitGroup{})
	if houseID := c.Query("house_id"); houseID != "" {
		query = query.Where("house_id = ?", houseID)
	}

	var groups []models.UnitGroup
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]UnitGroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, unitGroupView(g))
	}
	Success(c, views)
}

// Get 获取单元组详情（含单元列表）
// @Summary 获取单元组详情
// @Tags 房产
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元组ID"
// @Success 200 {object} Response "获取成功"
// @Failure 404 {object} Response "单元组不存在"
// @Router /api/v1/unit-groups/{id} [get]
func (h *UnitGroupHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var group models.UnitGroup
	if err := database.DB.First(&group, id).Error; err != nil {
		NotFound(c, "单元组不存在")
		return
	}

	var units []models.Unit
	database.DB.Where("unit_group_id = ?", group.ID).Order("id ASC").Find(&units)

	Success(c, gin.H{
		"unit_group": unitGroupView(group),
		"units":      units,
	})
}

// Update 更新单元组
// @Summary 更新单元组
// @Description 更新单元组条款。调高单元数量会补建缺口单元，调低不会删除已有单元。
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元组ID"
// @Param request body UpdateUnitGroupRequest true "单元组信息"
// @Success 200 {object} Response{data=UnitGroupView} "更新成功"
// @Failure 404 {object} Response "单元组不存在"
// @Router /api/v1/staff/unit-groups/{id} [put]
func (h *UnitGroupHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var group models.UnitGroup
	if err := database.DB.First(&group, id).Error; err != nil {
		NotFound(c, "单元组不存在")
		return
	}

	var req UpdateUnitGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.NumberOfUnits != nil {
		updates["number_of_units"] = *req.NumberOfUnits
	}
	if req.MonthlyRent != nil {
		monthlyRent, err := decimal.NewFromString(*req.MonthlyRent)
		if err != nil || !monthlyRent.IsPositive() {
			BadRequest(c, "月租金额格式错误")
			return
		}
		updates["monthly_rent"] = monthlyRent
	}
	if req.DepositAmount != nil {
		depositAmount, err := decimal.NewFromString(*req.DepositAmount)
		if err != nil || depositAmount.IsNegative() {
			BadRequest(c, "押金金额格式错误")
			return
		}
		updates["deposit_amount"] = depositAmount
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&group).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	// 数量调高时补建缺口单元
	database.DB.First(&group, group.ID)
	if _, err := service.SyncUnits(database.DB, &group); err != nil {
		InternalError(c, SafeErrorMessage(err, "生成单元失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", unitGroupView(group))
}

// Delete 删除单元组
// @Summary 删除单元组
// @Description 删除单元组及其下所有单元。仍有已入住单元时拒绝删除。
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元组ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "单元组不存在"
// @Failure 409 {object} Response "单元组内仍有已入住单元"
// @Router /api/v1/staff/unit-groups/{id} [delete]
func (h *UnitGroupHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var group models.UnitGroup
	if err := database.DB.First(&group, id).Error; err != nil {
		NotFound(c, "单元组不存在")
		return
	}

	var occupied int64
	database.DB.Model(&models.Unit{}).
		Where("unit_group_id = ? AND occupied_status = ?", group.ID, models.UnitStatusOccupied).
		Count(&occupied)
	if occupied > 0 {
		Conflict(c, "单元组内仍有已入住单元，请先释放租约")
		return
	}

	if err := database.DB.Select("Units").Delete(&group).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// CloseUnit 关闭单元
// @Summary 关闭单元
// @Description 把空置单元标记为关闭，关闭的单元不参与租约分配和扣租
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Success 200 {object} Response "关闭成功"
// @Failure 404 {object} Response "单元不存在"
// @Failure 409 {object} Response "单元已入住"
// @Router /api/v1/staff/units/{id}/close [post]
func (h *UnitGroupHandler) CloseUnit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	tenancy := service.NewTenancy(database.DB)
	if err := tenancy.CloseUnit(uint(id)); err != nil {
		ServiceError(c, err, "关闭单元失败")
		return
	}
	SuccessWithMessage(c, "单元已关闭", nil)
}

// ReopenUnit 重新开放单元
// @Summary 重新开放单元
// @Description 把关闭的单元恢复为空置
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Success 200 {object} Response "开放成功"
// @Failure 404 {object} Response "单元不存在"
// @Failure 409 {object} Response "单元未处于关闭状态"
// @Router /api/v1/staff/units/{id}/reopen [post]
func (h *UnitGroupHandler) ReopenUnit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	tenancy := service.NewTenancy(database.DB)
	if err := tenancy.ReopenUnit(uint(id)); err != nil {
		ServiceError(c, err, "开放单元失败")
		return
	}
	SuccessWithMessage(c, "单元已重新开放", nil)
}

// ProcessRent 执行月租批处理
// @Summary 执行月租批处理
// @Description 对单元组内所有已入住单元执行一轮月租扣款。部分单元失败时返回 207，已成功的单元不会回滚。
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元组ID"
// @Success 200 {object} Response{data=service.BatchResult} "批处理完成"
// @Success 207 {object} Response{data=service.BatchResult} "部分单元失败"
// @Failure 400 {object} Response "月租金额未设置"
// @Failure 404 {object} Response "单元组不存在"
// @Router /api/v1/staff/unit-groups/{id}/process-rent [post]
func (h *UnitGroupHandler) ProcessRent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	rp := service.NewRentProcessor(database.DB, h.cfg.Rental.RentChargeMeans)
	result, err := rp.Process(uint(id), time.Now(), h.cfg.Rental.DemoMode)
	if err != nil {
		var partial *service.PartialBatchError
		if errors.As(err, &partial) {
			c.JSON(207, Response{
				Code:    207,
				Message: partial.Error(),
				Data:    partial.Result,
			})
			return
		}
		ServiceError(c, err, "月租批处理失败")
		return
	}

	SuccessWithMessage(c, "月租批处理完成", result)
}
