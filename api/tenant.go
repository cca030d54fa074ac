package api

import (
	"strconv"
	"time"

	"rental/config"
	"rental/database"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
)

// TenantHandler 租约处理器
type TenantHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewTenantHandler 创建租约处理器
func NewTenantHandler(cfg *config.Config) *TenantHandler {
	return &TenantHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// AssignTenantRequest 分配租约请求
type AssignTenantRequest struct {
	UserID         uint   `json:"user_id" binding:"required" example:"1"`
	UnitID         uint   `json:"unit_id" binding:"required" example:"3"`
	LeaseStartDate string `json:"lease_start_date" example:"2024-01-01"` // 留空为当天
	LeaseEndDate   string `json:"lease_end_date" example:"2024-12-31"`   // 留空为无固定期限
	ExtraFeeIDs    []uint `json:"extra_fee_ids"`
}

// TenantView 租约视图
type TenantView struct {
	models.Tenant
	FullName string       `json:"full_name"`
	Username string       `json:"username"`
	Unit     *models.Unit `json:"unit,omitempty"`
}

// Assign 分配租约
// @Summary 分配租约
// @Description 把用户绑定到空置单元并将单元置为已入住。单元已被占用或用户已有租约时返回 409。
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignTenantRequest true "租约信息"
// @Success 200 {object} Response{data=models.Tenant} "分配成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "用户或单元不存在"
// @Failure 409 {object} Response "单元已占用或用户已有租约"
// @Router /api/v1/staff/tenants [post]
func (h *TenantHandler) Assign(c *gin.Context) {
	var req AssignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	params := service.AssignParams{
		UserID:      req.UserID,
		UnitID:      req.UnitID,
		ExtraFeeIDs: req.ExtraFeeIDs,
	}
	if req.LeaseStartDate != "" {
		start, err := time.ParseInLocation("2006-01-02", req.LeaseStartDate, time.Local)
		if err != nil {
			BadRequest(c, "租期开始日期格式错误，应为: 2006-01-02")
			return
		}
		params.LeaseStartDate = start
	}
	if req.LeaseEndDate != "" {
		end, err := time.ParseInLocation("2006-01-02", req.LeaseEndDate, time.Local)
		if err != nil {
			BadRequest(c, "租期结束日期格式错误，应为: 2006-01-02")
			return
		}
		params.LeaseEndDate = &end
	}

	tenancy := service.NewTenancy(database.DB)
	tenant, err := tenancy.Assign(params)
	if err != nil {
		ServiceError(c, err, "分配租约失败")
		return
	}

	// 欢迎邮件尽力发送，失败不影响分配结果
	var user models.User
	if err := database.DB.First(&user, tenant.UserID).Error; err == nil && user.Email != "" {
		var unit models.Unit
		unitName := ""
		if tenant.UnitID != nil {
			if err := database.DB.First(&unit, *tenant.UnitID).Error; err == nil {
				unitName = unit.Name
			}
		}
		_ = h.emailService.SendWelcomeEmail(user.Email, user.FullName(), unitName)
	}

	SuccessWithMessage(c, "分配成功", tenant)
}

// Release 释放租约
// @Summary 释放租约
// @Description 结束租约并把单元恢复为空置。租户的账户与交易历史保留。
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约ID"
// @Success 200 {object} Response "释放成功"
// @Failure 404 {object} Response "租约不存在"
// @Router /api/v1/staff/tenants/{id} [delete]
func (h *TenantHandler) Release(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	tenancy := service.NewTenancy(database.DB)
	if err := tenancy.Release(uint(id)); err != nil {
		ServiceError(c, err, "释放租约失败")
		return
	}

	SuccessWithMessage(c, "租约已释放", nil)
}

// List 获取租约列表
// @Summary 获取租约列表
// @Description 获取所有在租租户，可按单元组筛选
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param unit_group_id query int false "单元组ID"
// @Success 200 {object} Response{data=PageResponse{list=[]TenantView}} "获取成功"
// @Router /api/v1/staff/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
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

	query := database.DB.Model(&models.Tenant{})
	if groupID := c.Query("unit_group_id"); groupID != "" {
		query = query.Joins("JOIN units ON units.id = tenants.unit_id").
			Where("units.unit_group_id = ?", groupID)
	}

	var total int64
	query.Count(&total)

	var tenants []models.Tenant
	offset := (page - 1) * pageSize
	if err := query.Preload("User").Preload("Unit").
		Order("tenants.created_at DESC").Offset(offset).Limit(pageSize).
		Find(&tenants).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]TenantView, 0, len(tenants))
	for i := range tenants {
		views = append(views, TenantView{
			Tenant:   tenants[i],
			FullName: tenants[i].User.FullName(),
			Username: tenants[i].User.Username,
			Unit:     tenants[i].Unit,
		})
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     views,
	})
}

// Get 获取租约详情
// @Summary 获取租约详情
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约ID"
// @Success 200 {object} Response{data=TenantView} "获取成功"
// @Failure 404 {object} Response "租约不存在"
// @Router /api/v1/staff/tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var tenant models.Tenant
	if err := database.DB.Preload("User").Preload("Unit").Preload("ExtraFees").
		First(&tenant, id).Error; err != nil {
		NotFound(c, "租约不存在")
		return
	}

	Success(c, gin.H{
		"tenant":     tenant,
		"full_name":  tenant.User.FullName(),
		"username":   tenant.User.Username,
		"unit":       tenant.Unit,
		"extra_fees": tenant.ExtraFees,
	})
}
