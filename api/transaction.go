package api

import (
	"strconv"
	"time"

	"rental/database"
	"rental/middleware"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionHandler 资金交易处理器
// 交易入账后不可修改，因此只提供创建和查询接口
type TransactionHandler struct{}

// NewTransactionHandler 创建资金交易处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	UserID    uint   `json:"user_id" example:"1"` // 入账目标租户，留空则为操作者自己
	Type      string `json:"type" binding:"required" example:"Deposit"`
	Means     string `json:"means" binding:"required" example:"M-PESA"`
	Amount    string `json:"amount" binding:"required" example:"5000.00"`
	Reference string `json:"reference" example:"QCX12AB34C"` // 现金交易填 --
	Notes     string `json:"notes" binding:"omitempty,max=255" example:"Deposit via agent"`
}

// TransactionListRequest 交易列表请求
type TransactionListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Type      string `form:"type" example:"RentPayment"`
	Means     string `form:"means" example:"M-PESA"`
	StartTime string `form:"start_time" example:"2024-01-01"`
	EndTime   string `form:"end_time" example:"2024-12-31"`
	UserID    uint   `form:"user_id" example:"1"` // 仅工作人员有效
}

// Create 创建交易（入账，工作人员）
// @Summary 创建交易
// @Description 向账户存入或扣减资金并记账。现金交易引用号为 --，其他方式要求至少4位字母数字引用号。
// @Tags 物业管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "入账成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "权限不足"
// @Router /api/v1/staff/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	currentUserID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 入账是柜台操作：租户资金只能经由 M-PESA 回调进入，
	// 放开会允许租户凭编造的引用号给自己充值
	if !isStaff(c) {
		Forbidden(c, "权限不足")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		BadRequest(c, "金额格式错误")
		return
	}

	// 留空 user_id 则为操作者自己入账
	targetUserID := req.UserID
	if targetUserID == 0 {
		targetUserID = currentUserID
	}

	ledger := service.NewLedger(database.DB)
	tx, err := ledger.Record(service.RecordParams{
		UserID:    targetUserID,
		Type:      req.Type,
		Means:     req.Means,
		Amount:    amount,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		ServiceError(c, err, "入账失败")
		return
	}

	SuccessWithMessage(c, "入账成功", tx)
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 获取交易记录列表，支持分页和筛选。租户只能查看自己的交易，工作人员可按 user_id 查看任意租户。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param type query string false "交易类型筛选"
// @Param means query string false "支付方式筛选"
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Param user_id query int false "用户ID（仅工作人员）"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	currentUserID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	targetUserID := currentUserID
	if req.UserID != 0 && isStaff(c) {
		targetUserID = req.UserID
	}

	query := transactionListQuery(targetUserID, req.Type, req.Means, req.StartTime, req.EndTime)

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get 获取单条交易
// @Summary 获取单条交易
// @Description 根据ID获取交易详情
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	query := database.DB.Where("id = ?", id)
	if !isStaff(c) {
		query = query.Where("user_id = ?", userID)
	}

	var transaction models.Transaction
	if err := query.First(&transaction).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, transaction)
}

// GetStatistics 获取交易统计
// @Summary 获取交易统计
// @Description 按交易类型汇总当前用户指定时间范围内的交易金额
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions/statistics [get]
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := transactionListQuery(userID, "", "", c.Query("start_time"), c.Query("end_time"))

	// 按类型统计
	type TypeStat struct {
		Type  string          `json:"type"`
		Total decimal.Decimal `json:"total"`
		Count int64           `json:"count"`
	}
	var typeStats []TypeStat
	query.Select("type, SUM(amount) as total, COUNT(*) as count").
		Group("type").
		Order("total DESC").
		Scan(&typeStats)

	var user models.User
	balance := decimal.Zero
	debt := decimal.Zero
	if err := database.DB.Preload("Account").First(&user, userID).Error; err == nil {
		balance = user.Account.Balance
		debt = user.Account.DebtAmount()
	}

	Success(c, gin.H{
		"balance":     balance.StringFixed(2),
		"debt_amount": debt.StringFixed(2),
		"type_stats":  typeStats,
	})
}

// transactionListQuery 构建交易筛选查询
func transactionListQuery(userID uint, txType, means, startTime, endTime string) *gorm.DB {
	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if means != "" {
		query = query.Where("means = ?", means)
	}
	if startTime != "" {
		start, err := time.ParseInLocation("2006-01-02", startTime, time.Local)
		if err == nil {
			query = query.Where("created_at >= ?", start)
		}
	}
	if endTime != "" {
		end, err := time.ParseInLocation("2006-01-02", endTime, time.Local)
		if err == nil {
			// 包含结束日期当天
			end = end.Add(24*time.Hour - time.Second)
			query = query.Where("created_at <= ?", end)
		}
	}
	return query
}

// isStaff 当前请求是否由工作人员发起
// 路由层在通过 StaffOnly 中间件后设置该标记；租户路由上需现查数据库
func isStaff(c *gin.Context) bool {
	if v, exists := c.Get("isStaff"); exists {
		if b, ok := v.(bool); ok && b {
			return true
		}
	}
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		return false
	}
	var user models.User
	if err := database.DB.Select("is_staff").First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsStaff
}
