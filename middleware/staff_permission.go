package middleware

import (
	"net/http"

	"rental/database"
	"rental/models"

	"github.com/gin-gonic/gin"
)

// StaffOnly 物业工作人员权限校验中间件
// 需在 JWTAuth 之后使用，非 is_staff 用户一律拒绝。
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "请先登录"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "用户不存在"})
			c.Abort()
			return
		}

		if !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "权限不足"})
			c.Abort()
			return
		}

		c.Set("isStaff", true)
		c.Next()
	}
}
