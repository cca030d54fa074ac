package api

import (
	"rental/database"
	"rental/middleware"
	"rental/models"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 服务评价处理器
type FeedbackHandler struct{}

// NewFeedbackHandler 创建服务评价处理器
func NewFeedbackHandler() *FeedbackHandler {
	return &FeedbackHandler{}
}

// SubmitFeedbackRequest 提交评价请求
type SubmitFeedbackRequest struct {
	Message string `json:"message" binding:"required" example:"Great service, issues resolved quickly."`
	Rate    string `json:"rate" binding:"required" example:"Excellent"`
}

// Submit 提交或更新服务评价
// @Summary 提交服务评价
// @Description 每个用户至多一条评价，重复提交会覆盖原有内容
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitFeedbackRequest true "评价内容"
// @Success 200 {object} Response{data=models.ServiceFeedback} "提交成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.ValidFeedbackRate(req.Rate) {
		BadRequest(c, "无效的评价等级")
		return
	}

	var feedback models.ServiceFeedback
	err := database.DB.Where("sender_id = ?", userID).First(&feedback).Error
	if err == nil {
		// 已有评价则覆盖
		if err := database.DB.Model(&feedback).Updates(map[string]interface{}{
			"message": req.Message,
			"rate":    req.Rate,
		}).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新评价失败"))
			return
		}
		database.DB.First(&feedback, feedback.ID)
		SuccessWithMessage(c, "评价已更新", feedback)
		return
	}

	feedback = models.ServiceFeedback{
		SenderID: userID,
		Message:  req.Message,
		Rate:     req.Rate,
	}
	if err := database.DB.Create(&feedback).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "提交评价失败"))
		return
	}

	SuccessWithMessage(c, "感谢您的评价", feedback)
}

// Mine 获取当前用户的评价
// @Summary 获取我的评价
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.ServiceFeedback} "获取成功"
// @Failure 404 {object} Response "尚未提交评价"
// @Router /api/v1/feedback [get]
func (h *FeedbackHandler) Mine(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var feedback models.ServiceFeedback
	if err := database.DB.Where("sender_id = ?", userID).First(&feedback).Error; err != nil {
		NotFound(c, "尚未提交评价")
		return
	}
	Success(c, feedback)
}

// Wall 获取评价墙
// @Summary 获取评价墙
// @Description 获取允许公开展示的服务评价，无需登录
// @Tags 站点
// @Produce json
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/site/feedback [get]
func (h *FeedbackHandler) Wall(c *gin.Context) {
	type FeedbackView struct {
		Message    string `json:"message"`
		Rate       string `json:"rate"`
		SenderName string `json:"sender_name"`
		SenderRole string `json:"sender_role"`
	}

	var feedbacks []models.ServiceFeedback
	if err := database.DB.Preload("Sender").
		Where("show_in_index = ?", true).
		Order("created_at DESC").Limit(50).
		Find(&feedbacks).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]FeedbackView, 0, len(feedbacks))
	for i := range feedbacks {
		views = append(views, FeedbackView{
			Message:    feedbacks[i].Message,
			Rate:       feedbacks[i].Rate,
			SenderName: feedbacks[i].Sender.FullName(),
			SenderRole: feedbacks[i].SenderRole,
		})
	}
	Success(c, views)
}
