package api

import (
	"strconv"

	"rental/database"
	"rental/middleware"
	"rental/models"

	"github.com/gin-gonic/gin"
)

// MessageHandler 站内消息处理器
type MessageHandler struct{}

// NewMessageHandler 创建站内消息处理器
func NewMessageHandler() *MessageHandler {
	return &MessageHandler{}
}

// currentTenant 解析当前登录用户的租约
func currentTenant(c *gin.Context) (*models.Tenant, bool) {
	userID := middleware.GetCurrentUserID(c)
	var tenant models.Tenant
	if err := database.DB.Where("user_id = ?", userID).First(&tenant).Error; err != nil {
		NotFound(c, "当前用户没有在租单元")
		return nil, false
	}
	return &tenant, true
}

// SendPersonalMessageRequest 发送站内消息请求
type SendPersonalMessageRequest struct {
	TenantID uint   `json:"tenant_id" binding:"required" example:"1"`
	Category string `json:"category" binding:"required" example:"General"`
	Subject  string `json:"subject" binding:"required,max=200" example:"Water maintenance"`
	Content  string `json:"content" binding:"required" example:"Water will be off on Saturday morning."`
}

// SendCommunityMessageRequest 发送社群广播请求
type SendCommunityMessageRequest struct {
	CommunityIDs []uint `json:"community_ids" binding:"required,min=1"`
	Category     string `json:"category" binding:"required" example:"General"`
	Subject      string `json:"subject" binding:"required,max=200"`
	Content      string `json:"content" binding:"required"`
}

// Inbox 获取个人消息列表
// @Summary 获取个人消息列表
// @Description 获取当前租户的站内消息，按时间倒序
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.PersonalMessage}} "获取成功"
// @Router /api/v1/messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

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

	query := database.DB.Model(&models.PersonalMessage{}).Where("tenant_id = ?", tenant.ID)

	var total int64
	query.Count(&total)

	var messages []models.PersonalMessage
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&messages).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var unread int64
	database.DB.Model(&models.PersonalMessage{}).
		Where("tenant_id = ? AND is_read = ?", tenant.ID, false).Count(&unread)

	Success(c, gin.H{
		"unread_count": unread,
		"page": PageResponse{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			List:     messages,
		},
	})
}

// MarkRead 标记个人消息已读
// @Summary 标记消息已读
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path int true "消息ID"
// @Success 200 {object} Response "标记成功"
// @Failure 404 {object} Response "消息不存在"
// @Router /api/v1/messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var message models.PersonalMessage
	if err := database.DB.Where("id = ? AND tenant_id = ?", id, tenant.ID).First(&message).Error; err != nil {
		NotFound(c, "消息不存在")
		return
	}

	if !message.IsRead {
		if err := database.DB.Model(&message).Update("is_read", true).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "标记失败"))
			return
		}
	}

	SuccessWithMessage(c, "已标记为已读", nil)
}

// CommunityInbox 获取社群广播列表
// @Summary 获取社群广播列表
// @Description 获取发给所有社群的广播消息，附带当前租户的已读状态
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/messages/community [get]
func (h *MessageHandler) CommunityInbox(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

	var messages []models.CommunityMessage
	if err := database.DB.Order("created_at DESC").Limit(100).Find(&messages).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// 当前租户已读的广播ID集合
	var readIDs []uint
	database.DB.Table("community_message_reads").
		Where("tenant_id = ?", tenant.ID).
		Pluck("community_message_id", &readIDs)
	readSet := make(map[uint]bool, len(readIDs))
	for _, id := range readIDs {
		readSet[id] = true
	}

	type CommunityMessageView struct {
		models.CommunityMessage
		IsRead bool `json:"is_read"`
	}
	views := make([]CommunityMessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, CommunityMessageView{CommunityMessage: m, IsRead: readSet[m.ID]})
	}

	Success(c, views)
}

// MarkCommunityRead 标记社群广播已读
// @Summary 标记社群广播已读
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path int true "广播ID"
// @Success 200 {object} Response "标记成功"
// @Failure 404 {object} Response "广播不存在"
// @Router /api/v1/messages/community/{id}/read [post]
func (h *MessageHandler) MarkCommunityRead(c *gin.Context) {
	tenant, ok := currentTenant(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var message models.CommunityMessage
	if err := database.DB.First(&message, id).Error; err != nil {
		NotFound(c, "广播不存在")
		return
	}

	if err := database.DB.Model(&message).Association("ReadBy").Append(tenant); err != nil {
		InternalError(c, SafeErrorMessage(err, "标记失败"))
		return
	}

	SuccessWithMessage(c, "已标记为已读", nil)
}

// SendPersonal 发送个人消息（工作人员）
// @Summary 发送个人消息
// @Description 物业工作人员向指定租户发送站内消息
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendPersonalMessageRequest true "消息内容"
// @Success 200 {object} Response{data=models.PersonalMessage} "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "租约不存在"
// @Router /api/v1/staff/messages [post]
func (h *MessageHandler) SendPersonal(c *gin.Context) {
	var req SendPersonalMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.ValidMessageCategory(req.Category) {
		BadRequest(c, "无效的消息类别")
		return
	}

	var tenant models.Tenant
	if err := database.DB.First(&tenant, req.TenantID).Error; err != nil {
		NotFound(c, "租约不存在")
		return
	}

	message := models.PersonalMessage{
		TenantID: tenant.ID,
		Category: req.Category,
		Subject:  req.Subject,
		Content:  req.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "发送失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", message)
}

// SendCommunity 发送社群广播（工作人员）
// @Summary 发送社群广播
// @Description 物业工作人员向一个或多个社群发送广播消息
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendCommunityMessageRequest true "广播内容"
// @Success 200 {object} Response{data=models.CommunityMessage} "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/staff/messages/community [post]
func (h *MessageHandler) SendCommunity(c *gin.Context) {
	var req SendCommunityMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.ValidMessageCategory(req.Category) {
		BadRequest(c, "无效的消息类别")
		return
	}

	var communities []models.Community
	if err := database.DB.Where("id IN ?", req.CommunityIDs).Find(&communities).Error; err != nil || len(communities) == 0 {
		BadRequest(c, "社群不存在")
		return
	}

	message := models.CommunityMessage{
		Category:    req.Category,
		Subject:     req.Subject,
		Content:     req.Content,
		Communities: communities,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "发送失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", message)
}

// ListCommunities 获取社群列表
// @Summary 获取社群列表
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Community} "获取成功"
// @Router /api/v1/communities [get]
func (h *MessageHandler) ListCommunities(c *gin.Context) {
	var communities []models.Community
	if err := database.DB.Order("name ASC").Find(&communities).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, communities)
}

// CreateCommunityRequest 创建社群请求
type CreateCommunityRequest struct {
	Name            string `json:"name" binding:"required,max=100" example:"Sunrise Residents"`
	Description     string `json:"description"`
	SocialMediaLink string `json:"social_media_link" binding:"omitempty,max=200"`
}

// CreateCommunity 创建社群（工作人员）
// @Summary 创建社群
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommunityRequest true "社群信息"
// @Success 200 {object} Response{data=models.Community} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/staff/communities [post]
func (h *MessageHandler) CreateCommunity(c *gin.Context) {
	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var existing models.Community
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "社群名称已存在")
		return
	}

	community := models.Community{
		Name:            req.Name,
		Description:     req.Description,
		SocialMediaLink: req.SocialMediaLink,
	}
	if err := database.DB.Create(&community).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", community)
}
