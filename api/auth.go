package api

import (
	"net/http"

	"rental/config"
	"rental/database"
	"rental/middleware"
	"rental/models"
	"rental/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username               string `json:"username" binding:"required,min=3,max=50" example:"john"`
	Password               string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email                  string `json:"email" binding:"omitempty,email" example:"john@example.com"`
	FirstName              string `json:"first_name" binding:"omitempty,max=50" example:"John"`
	LastName               string `json:"last_name" binding:"omitempty,max=50" example:"Doe"`
	Gender                 string `json:"gender" binding:"omitempty,oneof=M F O" example:"M"`
	IdentityNumber         string `json:"identity_number" binding:"required,max=20" example:"12345678"`
	Occupation             string `json:"occupation" binding:"omitempty,max=40" example:"Teacher"`
	PhoneNumber            string `json:"phone_number" binding:"omitempty,max=15" example:"0712345678"`
	EmergencyContactNumber string `json:"emergency_contact_number" binding:"omitempty,max=15" example:"0787654321"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"john"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，同时开立关联的资金账户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 检查用户名是否已存在
	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "用户名已存在")
		return
	}
	if err := database.DB.Where("identity_number = ?", req.IdentityNumber).First(&existingUser).Error; err == nil {
		BadRequest(c, "该证件号已注册")
		return
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = models.GenderOther
	}

	// 用户与资金账户在同一事务内创建
	var user models.User
	ledger := service.NewLedger(database.DB)
	err = database.DB.Transaction(func(dbTx *gorm.DB) error {
		account, err := ledger.EnsureAccount(dbTx)
		if err != nil {
			return err
		}
		user = models.User{
			Username:               req.Username,
			Password:               string(hashedPassword),
			Email:                  req.Email,
			FirstName:              req.FirstName,
			LastName:               req.LastName,
			Gender:                 gender,
			IdentityNumber:         req.IdentityNumber,
			Occupation:             req.Occupation,
			PhoneNumber:            req.PhoneNumber,
			EmergencyContactNumber: req.EmergencyContactNumber,
			AccountID:              account.ID,
		}
		return dbTx.Create(&user).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 查找用户（支持用户名或邮箱）
	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	// 生成 token
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// ProfileResponse 个人信息响应，附带资金账户与当前租约
type ProfileResponse struct {
	models.User
	Balance    string         `json:"balance"`
	DebtAmount string         `json:"debt_amount"`
	Tenant     *models.Tenant `json:"tenant,omitempty"`
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息、账户余额及当前租约
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ProfileResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.Preload("Account").First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	resp := ProfileResponse{
		User:       user,
		Balance:    user.Account.Balance.StringFixed(2),
		DebtAmount: user.Account.DebtAmount().StringFixed(2),
	}

	// 当前租约（可能没有）
	var tenant models.Tenant
	if err := database.DB.Preload("Unit").Preload("ExtraFees").
		Where("user_id = ?", userID).First(&tenant).Error; err == nil {
		resp.Tenant = &tenant
	}

	Success(c, resp)
}

// UpdateProfileRequest 更新个人信息请求
type UpdateProfileRequest struct {
	Email                  *string `json:"email" binding:"omitempty,email"`
	FirstName              *string `json:"first_name" binding:"omitempty,max=50"`
	LastName               *string `json:"last_name" binding:"omitempty,max=50"`
	Gender                 *string `json:"gender" binding:"omitempty,oneof=M F O"`
	Occupation             *string `json:"occupation" binding:"omitempty,max=40"`
	PhoneNumber            *string `json:"phone_number" binding:"omitempty,max=15"`
	EmergencyContactNumber *string `json:"emergency_contact_number" binding:"omitempty,max=15"`
}

// UpdateProfile 更新个人信息
// @Summary 更新个人信息
// @Description 更新当前用户的联系方式等个人信息，只更新提交的字段
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "个人信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Occupation != nil {
		updates["occupation"] = *req.Occupation
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.EmergencyContactNumber != nil {
		updates["emergency_contact_number"] = *req.EmergencyContactNumber
	}
	if len(updates) == 0 {
		Success(c, user)
		return
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 修改当前用户密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	// 验证旧密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "原密码错误")
		return
	}

	// 加密新密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, "更新密码失败")
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}

// CheckUsername 检查用户名是否可用
// @Summary 检查用户名是否可用
// @Tags 认证
// @Produce json
// @Param username query string true "用户名"
// @Success 200 {object} Response "检查结果"
// @Router /api/v1/auth/check-username [get]
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		BadRequest(c, "用户名不能为空")
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	Success(c, gin.H{"available": count == 0})
}

func tooManyRequests(c *gin.Context, message string) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"message": message,
	})
}
