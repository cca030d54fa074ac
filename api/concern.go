package api

import (
	"strconv"

	"rental/database"
	"rental/models"

	"github.com/gin-gonic/gin"
)

// ConcernHandler 租户诉求处理器
type ConcernHandler struct{}

// NewConcernHandler 创建租户诉求处理器
func NewConcernHandler() *ConcernHandler {
	return &ConcernHandler{}
}

// CreateConcernRequest 提交诉求请求
type CreateConcernRequest struct {
	About   string `json:"about" binding:"required,max=200" example:"Leaking roof"`
	Details string `json:"details" binding:"required" example:"The roof in my unit leaks when it rains."`
}

// RespondConcernRequest 回复诉求请求
type RespondConcernRequest struct {
	Response string `json:"response" binding:"omitempty"`
	Status   string `json:"status" binding:"required" example:"In Progress"`
}

// Create 提交诉求
// @Summary 提交诉求
// @Description 当前租户提交一条诉求/投诉，初始状态为 Open
// @Tags 诉求
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateConcernRequest true "诉求内容"
// @Success 200 {object} Response{data=models.Concern} "提交成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "当前用户没有在租单元"
// @Router /api/v1/concerns [post]
func (h *ConcernHandler) Create(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

	var req CreateConcernRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	concern := models.Concern{
		TenantID: tenant.ID,
		About:    req.About,
		Details:  req.Details,
		Status:   models.ConcernStatusOpen,
	}
	if err := database.DB.Create(&concern).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "提交失败"))
		return
	}

	SuccessWithMessage(c, "诉求已提交", concern)
}

// List 获取当前租户的诉求列表
// @Summary 获取诉求列表
// @Tags 诉求
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Concern} "获取成功"
// @Router /api/v1/concerns [get]
func (h *ConcernHandler) List(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

	var concerns []models.Concern
	if err := database.DB.Where("tenant_id = ?", tenant.ID).
		Order("created_at DESC").Find(&concerns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, concerns)
}

// StaffList 获取全部诉求列表（工作人员）
// @Summary 获取全部诉求列表
// @Description 物业工作人员查看所有租户诉求，可按状态筛选
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态筛选 Open/In Progress/Resolved/Closed"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Concern}} "获取成功"
// @Router /api/v1/staff/concerns [get]
func (h *ConcernHandler) StaffList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := database.DB.Model(&models.Concern{})
	if status := c.Query("status"); status != "" {
		if !models.ValidConcernStatus(status) {
			BadRequest(c, "无效的状态")
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var concerns []models.Concern
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&concerns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     concerns,
	})
}

// Respond 回复/流转诉求（工作人员）
// @Summary 回复诉求
// @Description 物业工作人员回复诉求并更新状态，状态变更会给租户发送站内通知
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "诉求ID"
// @Param request body RespondConcernRequest true "回复内容"
// @Success 200 {object} Response{data=models.Concern} "回复成功"
// @Failure 400 {object} Response "无效的状态"
// @Failure 404 {object} Response "诉求不存在"
// @Router /api/v1/staff/concerns/{id} [put]
func (h *ConcernHandler) Respond(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req RespondConcernRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !models.ValidConcernStatus(req.Status) {
		BadRequest(c, "无效的状态")
		return
	}

	var concern models.Concern
	if err := database.DB.First(&concern, id).Error; err != nil {
		NotFound(c, "诉求不存在")
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Response != "" {
		updates["response"] = req.Response
	}
	if err := database.DB.Model(&concern).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	// 状态变更通知，送达与否不影响流转结果
	notice := models.PersonalMessage{
		TenantID: concern.TenantID,
		Category: models.MessageCategoryMaintenance,
		Subject:  "Concern update: " + concern.About,
		Content:  "Your concern is now " + req.Status + ".",
	}
	database.DB.Create(&notice)

	database.DB.First(&concern, concern.ID)
	SuccessWithMessage(c, "回复成功", concern)
}
