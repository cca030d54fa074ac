package router

import (
	"time"

	"rental/api"
	"rental/config"
	_ "rental/docs"
	"rental/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := api.NewAuthHandler(cfg)
	passwordResetHandler := api.NewPasswordResetHandler(cfg)
	transactionHandler := api.NewTransactionHandler()
	exportHandler := api.NewExportHandler()
	houseHandler := api.NewHouseHandler()
	unitGroupHandler := api.NewUnitGroupHandler(cfg)
	tenantHandler := api.NewTenantHandler(cfg)
	extraFeeHandler := api.NewExtraFeeHandler()
	messageHandler := api.NewMessageHandler()
	concernHandler := api.NewConcernHandler()
	feedbackHandler := api.NewFeedbackHandler()
	businessHandler := api.NewBusinessHandler(cfg)
	webhookHandler := api.NewWebhookHandler()

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
			auth.GET("/check-username", authHandler.CheckUsername)

			// 密码重置
			auth.POST("/password/request-reset", passwordResetHandler.RequestPasswordReset)
			auth.GET("/password/verify-token", passwordResetHandler.VerifyResetToken)
			auth.POST("/password/reset", passwordResetHandler.ResetPassword)
		}

		// 站点公开信息（无需登录）
		site := v1.Group("/site")
		{
			site.GET("/about", businessHandler.GetAbout)
			site.GET("/faqs", businessHandler.ListFAQs)
			site.GET("/galleries", businessHandler.ListGalleries)
			site.GET("/feedback-wall", feedbackHandler.Wall)
			site.POST("/visitor-messages", businessHandler.CreateVisitorMessage)
		}

		// 支付网关回调（无需登录，由网关调用）
		v1.POST("/webhooks/mpesa", webhookHandler.MpesaConfirmation)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 交易相关
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", transactionHandler.List)
				transactions.GET("/statistics", transactionHandler.GetStatistics)
				transactions.GET("/:id", transactionHandler.Get)
			}

			// 导出相关
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
			}

			// 房产信息（租户可浏览）
			authorized.GET("/houses", houseHandler.List)
			authorized.GET("/houses/:id", houseHandler.Get)
			authorized.GET("/unit-groups", unitGroupHandler.List)
			authorized.GET("/unit-groups/:id", unitGroupHandler.Get)

			// 站内消息
			messages := authorized.Group("/messages")
			{
				messages.GET("/inbox", messageHandler.Inbox)
				messages.PUT("/inbox/:id/read", messageHandler.MarkRead)
				messages.GET("/community", messageHandler.CommunityInbox)
				messages.PUT("/community/:id/read", messageHandler.MarkCommunityRead)
			}

			// 事务反映与服务评价
			authorized.POST("/concerns", concernHandler.Create)
			authorized.GET("/concerns", concernHandler.List)
			authorized.POST("/feedback", feedbackHandler.Submit)
			authorized.GET("/feedback/mine", feedbackHandler.Mine)

			// 缴费
			authorized.GET("/payment-accounts", businessHandler.ListPaymentAccounts)
			authorized.POST("/mpesa-push", businessHandler.MpesaPush)
		}

		// 物业工作人员专属路由
		staff := v1.Group("/staff")
		staff.Use(middleware.JWTAuth(), middleware.StaffOnly())
		{
			// 房产管理
			staff.POST("/houses", houseHandler.Create)
			staff.PUT("/houses/:id", houseHandler.Update)
			staff.DELETE("/houses/:id", houseHandler.Delete)

			// 单元组管理
			staff.POST("/unit-groups", unitGroupHandler.Create)
			staff.PUT("/unit-groups/:id", unitGroupHandler.Update)
			staff.DELETE("/unit-groups/:id", unitGroupHandler.Delete)
			staff.POST("/unit-groups/:id/process-rent", unitGroupHandler.ProcessRent)
			staff.PUT("/units/:id/close", unitGroupHandler.CloseUnit)
			staff.PUT("/units/:id/reopen", unitGroupHandler.ReopenUnit)

			// 手工入账（租户侧资金只能经 M-PESA 回调进入）
			staff.POST("/transactions", transactionHandler.Create)

			// 租约管理
			staff.POST("/tenants", tenantHandler.Assign)
			staff.GET("/tenants", tenantHandler.List)
			staff.GET("/tenants/:id", tenantHandler.Get)
			staff.DELETE("/tenants/:id", tenantHandler.Release)

			// 杂费管理
			staff.POST("/extra-fees", extraFeeHandler.Create)
			staff.GET("/extra-fees", extraFeeHandler.List)
			staff.PUT("/extra-fees/:id", extraFeeHandler.Update)
			staff.DELETE("/extra-fees/:id", extraFeeHandler.Delete)

			// 消息发送
			staff.POST("/messages/personal", messageHandler.SendPersonal)
			staff.POST("/messages/community", messageHandler.SendCommunity)
			staff.GET("/communities", messageHandler.ListCommunities)
			staff.POST("/communities", messageHandler.CreateCommunity)

			// 事务反映处理
			staff.GET("/concerns", concernHandler.StaffList)
			staff.PUT("/concerns/:id/respond", concernHandler.Respond)

			// 站点内容管理
			staff.PUT("/about", businessHandler.UpdateAbout)
			staff.POST("/faqs", businessHandler.CreateFAQ)
			staff.DELETE("/faqs/:id", businessHandler.DeleteFAQ)
			staff.GET("/visitor-messages", businessHandler.ListVisitorMessages)

			// 全量导出与密码重置
			staff.GET("/export/excel", exportHandler.ExportExcel)
			staff.POST("/users/reset-password", passwordResetHandler.StaffResetPassword)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
