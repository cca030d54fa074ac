package api

import (
	"strconv"

	"rental/database"
	"rental/models"

	"github.com/gin-gonic/gin"
)

// HouseHandler 房产处理器
type HouseHandler struct{}

// NewHouseHandler 创建房产处理器
func NewHouseHandler() *HouseHandler {
	return &HouseHandler{}
}

// CreateHouseRequest 创建房产请求
type CreateHouseRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Sunrise Apartments"`
	Address     string `json:"address" binding:"omitempty,max=200" example:"456 Estate Avenue"`
	Description string `json:"description" example:"Gated community with parking"`
}

// UpdateHouseRequest 更新房产请求
type UpdateHouseRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Address     *string `json:"address" binding:"omitempty,max=200"`
	Description *string `json:"description"`
}

// Create 创建房产
// @Summary 创建房产
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateHouseRequest true "房产信息"
// @Success 200 {object} Response{data=models.House} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/staff/houses [post]
func (h *HouseHandler) Create(c *gin.Context) {
	var req CreateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var existing models.House
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "房产名称已存在")
		return
	}

	house := models.House{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}
	if err := database.DB.Create(&house).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建房产失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", house)
}

// List 获取房产列表
// @Summary 获取房产列表
// @Tags 房产
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.House} "获取成功"
// @Router /api/v1/houses [get]
func (h *HouseHandler) List(c *gin.Context) {
	var houses []models.House
	if err := database.DB.Order("name ASC").Find(&houses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, houses)
}

// Get 获取房产详情（含单元组）
// @Summary 获取房产详情
// @Tags 房产
// @Produce json
// @Security BearerAuth
// @Param id path int true "房产ID"
// @Success 200 {object} Response{data=models.House} "获取成功"
// @Failure 404 {object} Response "房产不存在"
// @Router /api/v1/houses/{id} [get]
func (h *HouseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var house models.House
	if err := database.DB.Preload("UnitGroups").First(&house, id).Error; err != nil {
		NotFound(c, "房产不存在")
		return
	}

	Success(c, gin.H{
		"house":       house,
		"unit_groups": house.UnitGroups,
	})
}

// Update 更新房产
// @Summary 更新房产
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房产ID"
// @Param request body UpdateHouseRequest true "房产信息"
// @Success 200 {object} Response{data=models.House} "更新成功"
// @Failure 404 {object} Response "房产不存在"
// @Router /api/v1/staff/houses/{id} [put]
func (h *HouseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var house models.House
	if err := database.DB.First(&house, id).Error; err != nil {
		NotFound(c, "房产不存在")
		return
	}

	var req UpdateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&house).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&house, house.ID)
	SuccessWithMessage(c, "更新成功", house)
}

// Delete 删除房产
// @Summary 删除房产
// @Description 删除房产。仍有单元组挂在该房产下时拒绝删除。
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "房产ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "房产不存在"
// @Failure 409 {object} Response "房产下仍有单元组"
// @Router /api/v1/staff/houses/{id} [delete]
func (h *HouseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var house models.House
	if err := database.DB.First(&house, id).Error; err != nil {
		NotFound(c, "房产不存在")
		return
	}

	var groupCount int64
	database.DB.Model(&models.UnitGroup{}).Where("house_id = ?", house.ID).Count(&groupCount)
	if groupCount > 0 {
		Conflict(c, "房产下仍有单元组，请先删除单元组")
		return
	}

	if err := database.DB.Delete(&house).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
