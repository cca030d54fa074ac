package api

import (
	"rental/database"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WebhookHandler 支付网关回调处理器
type WebhookHandler struct{}

// NewWebhookHandler 创建支付网关回调处理器
func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

// MpesaConfirmationRequest M-PESA 到账回调
// AccountNumber 为付款时填写的账号，即收款账户模板渲染出的用户名
type MpesaConfirmationRequest struct {
	TransID       string `json:"TransID" binding:"required" example:"QCX12AB34C"`
	TransAmount   string `json:"TransAmount" binding:"required" example:"5000.00"`
	AccountNumber string `json:"BillRefNumber" binding:"required" example:"john"`
	MSISDN        string `json:"MSISDN" example:"254712345678"`
	FirstName     string `json:"FirstName" example:"John"`
}

// MpesaConfirmation 处理 M-PESA 到账回调
// @Summary M-PESA 到账回调
// @Description 支付网关确认到账后调用，按引用号入账。重复的引用号会被拒绝，保证回调重放不会重复入账。
// @Tags 回调
// @Accept json
// @Produce json
// @Param request body MpesaConfirmationRequest true "到账信息"
// @Success 200 {object} Response{data=models.Transaction} "入账成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "账号不存在"
// @Failure 409 {object} Response "引用号已入账"
// @Router /api/v1/webhooks/mpesa [post]
func (h *WebhookHandler) MpesaConfirmation(c *gin.Context) {
	var req MpesaConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	amount, err := decimal.NewFromString(req.TransAmount)
	if err != nil || !amount.IsPositive() {
		BadRequest(c, "金额格式错误")
		return
	}

	// 回调重放保护：同一引用号只入账一次
	var existing models.Transaction
	if err := database.DB.Where("reference = ? AND means = ?", req.TransID, models.MeansMpesa).
		First(&existing).Error; err == nil {
		Conflict(c, "该引用号已入账")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.AccountNumber).First(&user).Error; err != nil {
		NotFound(c, "账号不存在")
		return
	}

	ledger := service.NewLedger(database.DB)
	tx, err := ledger.Record(service.RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansMpesa,
		Amount:    amount,
		Reference: req.TransID,
		Notes:     "M-PESA payment from " + req.MSISDN,
	})
	if err != nil {
		ServiceError(c, err, "入账失败")
		return
	}

	// 到账通知，没有租约的用户跳过
	var tenant models.Tenant
	if err := database.DB.Where("user_id = ?", user.ID).First(&tenant).Error; err == nil {
		notice := models.PersonalMessage{
			TenantID: tenant.ID,
			Category: models.MessageCategoryPayment,
			Subject:  "Payment received",
			Content:  "We have received your payment of " + amount.StringFixed(2) + ". Thank you.",
		}
		database.DB.Create(&notice)
	}

	SuccessWithMessage(c, "入账成功", tx)
}
