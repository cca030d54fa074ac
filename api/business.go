package api

import (
	"strconv"

	"rental/config"
	"rental/database"
	"rental/middleware"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
)

// BusinessHandler 站点信息处理器（关于我们、FAQ、相册、访客留言、收款账户）
type BusinessHandler struct {
	cfg   *config.Config
	mpesa *service.MpesaClient
}

// NewBusinessHandler 创建站点信息处理器
func NewBusinessHandler(cfg *config.Config) *BusinessHandler {
	return &BusinessHandler{
		cfg:   cfg,
		mpesa: service.NewMpesaClient(&cfg.Mpesa),
	}
}

// GetAbout 获取业务主体信息
// @Summary 获取业务主体信息
// @Description 获取品牌、联系方式和社交链接，无需登录
// @Tags 站点
// @Produce json
// @Success 200 {object} Response{data=models.About} "获取成功"
// @Router /api/v1/site/about [get]
func (h *BusinessHandler) GetAbout(c *gin.Context) {
	var about models.About
	if err := database.DB.First(&about).Error; err != nil {
		NotFound(c, "站点信息未初始化")
		return
	}
	Success(c, about)
}

// UpdateAboutRequest 更新业务主体信息请求
type UpdateAboutRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=40"`
	ShortName   *string `json:"short_name" binding:"omitempty,max=30"`
	Slogan      *string `json:"slogan" binding:"omitempty,max=255"`
	Details     *string `json:"details"`
	Address     *string `json:"address" binding:"omitempty,max=200"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=50"`
	Facebook    *string `json:"facebook" binding:"omitempty,max=100"`
	Twitter     *string `json:"twitter" binding:"omitempty,max=100"`
	LinkedIn    *string `json:"linkedin" binding:"omitempty,max=100"`
	Instagram   *string `json:"instagram" binding:"omitempty,max=100"`
	TikTok      *string `json:"tiktok" binding:"omitempty,max=100"`
	YouTube     *string `json:"youtube" binding:"omitempty,max=100"`
}

// UpdateAbout 更新业务主体信息（工作人员）
// @Summary 更新业务主体信息
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAboutRequest true "站点信息"
// @Success 200 {object} Response{data=models.About} "更新成功"
// @Router /api/v1/staff/about [put]
func (h *BusinessHandler) UpdateAbout(c *gin.Context) {
	var req UpdateAboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var about models.About
	if err := database.DB.First(&about).Error; err != nil {
		NotFound(c, "站点信息未初始化")
		return
	}

	updates := map[string]interface{}{}
	setIf := func(key string, v *string) {
		if v != nil {
			updates[key] = *v
		}
	}
	setIf("name", req.Name)
	setIf("short_name", req.ShortName)
	setIf("slogan", req.Slogan)
	setIf("details", req.Details)
	setIf("address", req.Address)
	setIf("email", req.Email)
	setIf("phone_number", req.PhoneNumber)
	setIf("facebook", req.Facebook)
	setIf("twitter", req.Twitter)
	setIf("linkedin", req.LinkedIn)
	setIf("instagram", req.Instagram)
	setIf("tiktok", req.TikTok)
	setIf("youtube", req.YouTube)

	if len(updates) > 0 {
		if err := database.DB.Model(&about).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&about, about.ID)
	SuccessWithMessage(c, "更新成功", about)
}

// ListFAQs 获取常见问题
// @Summary 获取常见问题
// @Tags 站点
// @Produce json
// @Success 200 {object} Response{data=[]models.FAQ} "获取成功"
// @Router /api/v1/site/faqs [get]
func (h *BusinessHandler) ListFAQs(c *gin.Context) {
	var faqs []models.FAQ
	if err := database.DB.Where("is_shown = ?", true).Order("id ASC").Find(&faqs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, faqs)
}

// CreateFAQRequest 创建常见问题请求
type CreateFAQRequest struct {
	Question string `json:"question" binding:"required,max=100"`
	Answer   string `json:"answer" binding:"required"`
	IsShown  *bool  `json:"is_shown"`
}

// CreateFAQ 创建常见问题（工作人员）
// @Summary 创建常见问题
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFAQRequest true "问题与答案"
// @Success 200 {object} Response{data=models.FAQ} "创建成功"
// @Router /api/v1/staff/faqs [post]
func (h *BusinessHandler) CreateFAQ(c *gin.Context) {
	var req CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	faq := models.FAQ{Question: req.Question, Answer: req.Answer, IsShown: true}
	if req.IsShown != nil {
		faq.IsShown = *req.IsShown
	}
	if err := database.DB.Create(&faq).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", faq)
}

// DeleteFAQ 删除常见问题（工作人员）
// @Summary 删除常见问题
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "问题ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "问题不存在"
// @Router /api/v1/staff/faqs/{id} [delete]
func (h *BusinessHandler) DeleteFAQ(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	res := database.DB.Delete(&models.FAQ{}, id)
	if res.Error != nil {
		InternalError(c, SafeErrorMessage(res.Error, "删除失败"))
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "问题不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// ListGalleries 获取站点相册
// @Summary 获取站点相册
// @Tags 站点
// @Produce json
// @Success 200 {object} Response{data=[]models.Gallery} "获取成功"
// @Router /api/v1/site/galleries [get]
func (h *BusinessHandler) ListGalleries(c *gin.Context) {
	var galleries []models.Gallery
	if err := database.DB.Where("show_in_index = ?", true).
		Order("date DESC").Find(&galleries).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, galleries)
}

// VisitorMessageRequest 访客留言请求
type VisitorMessageRequest struct {
	Sender string `json:"sender" binding:"required,max=50" example:"Jane Visitor"`
	Email  string `json:"email" binding:"required,email" example:"jane@example.com"`
	Body   string `json:"body" binding:"required" example:"Do you have vacant units?"`
}

// CreateVisitorMessage 提交访客留言
// @Summary 提交访客留言
// @Description 站点联系表单，无需登录
// @Tags 站点
// @Accept json
// @Produce json
// @Param request body VisitorMessageRequest true "留言内容"
// @Success 200 {object} Response "提交成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/site/visitor-messages [post]
func (h *BusinessHandler) CreateVisitorMessage(c *gin.Context) {
	var req VisitorMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	message := models.VisitorMessage{
		Sender: req.Sender,
		Email:  req.Email,
		Body:   req.Body,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "提交失败"))
		return
	}
	SuccessWithMessage(c, "留言已提交，我们会尽快回复", nil)
}

// ListVisitorMessages 获取访客留言（工作人员）
// @Summary 获取访客留言
// @Tags 物业管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.VisitorMessage} "获取成功"
// @Router /api/v1/staff/visitor-messages [get]
func (h *BusinessHandler) ListVisitorMessages(c *gin.Context) {
	var messages []models.VisitorMessage
	if err := database.DB.Order("created_at DESC").Find(&messages).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, messages)
}

// PaymentAccountView 收款账户视图，账号模板已按当前用户渲染
type PaymentAccountView struct {
	Name          string `json:"name"`
	PaybillNumber string `json:"paybill_number"`
	AccountNumber string `json:"account_number"`
	Details       string `json:"details"`
}

// ListPaymentAccounts 获取收款账户信息
// @Summary 获取收款账户信息
// @Description 获取启用的收款账户，账号模板按当前用户渲染（如用户名作为账号）
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]PaymentAccountView} "获取成功"
// @Router /api/v1/payment-accounts [get]
func (h *BusinessHandler) ListPaymentAccounts(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	var accounts []models.PaymentAccount
	if err := database.DB.Where("is_active = ?", true).Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]PaymentAccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, PaymentAccountView{
			Name:          accounts[i].Name,
			PaybillNumber: accounts[i].PaybillNumber,
			AccountNumber: accounts[i].RenderAccountNumber(&user),
			Details:       accounts[i].Details,
		})
	}
	Success(c, views)
}

// MpesaPushRequest 发起 M-PESA 支付弹窗请求
type MpesaPushRequest struct {
	Amount      string `json:"amount" binding:"required" example:"5000"`
	PhoneNumber string `json:"phone_number" example:"0712345678"` // 留空用个人资料中的号码
}

// MpesaPush 发起 M-PESA 支付弹窗
// @Summary 发起 M-PESA 支付弹窗
// @Description 向租户手机推送 STK 支付弹窗。实际入账由网关回调驱动，推送本身不产生交易。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MpesaPushRequest true "支付信息"
// @Success 200 {object} Response "推送成功"
// @Failure 400 {object} Response "电话号码无效"
// @Router /api/v1/payments/mpesa-push [post]
func (h *BusinessHandler) MpesaPush(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req MpesaPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = user.PhoneNumber
	}
	if phone == "" {
		BadRequest(c, "请先在个人资料中设置电话号码")
		return
	}

	if err := h.mpesa.SendPaymentPush(phone, req.Amount, user.Username); err != nil {
		ServiceError(c, err, "支付推送失败")
		return
	}

	SuccessWithMessage(c, "支付弹窗已发送，请在手机上确认", nil)
}
