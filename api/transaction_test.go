package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setStaffMiddleware 在测试路由中注入已通过 StaffOnly 的工作人员
func setStaffMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isStaff", true)
		c.Next()
	}
}

func transactionRouter(staff bool, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if staff {
		router.Use(setStaffMiddleware(userID))
	} else {
		router.Use(setUserIDMiddleware(userID))
	}
	h := NewTransactionHandler()
	router.POST("/transactions", h.Create)
	router.GET("/transactions", h.List)
	return router
}

func TestTransactionHandler_Create_NonStaffForbidden(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 租户不能手工入账，资金只能经 M-PESA 回调进入
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"is_staff"}).AddRow(false))

	body := `{"type":"Deposit","means":"M-PESA","amount":"5000.00","reference":"QA12BC34"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	transactionRouter(false, 1).ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_CashBadReference(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	// 现金交易的引用号必须为 --
	body := `{"type":"Deposit","means":"Cash","amount":"5000.00","reference":"ABC123"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	transactionRouter(true, 1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "现金交易的引用号必须为 --")
}

func TestTransactionHandler_Create_InvalidType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"type":"Refund","means":"Cash","amount":"5000.00","reference":"--"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	transactionRouter(true, 1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "无效的交易类型")
}

func TestTransactionHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(2, 1, "RentPayment", "Cash", "4500.00", "--", "", time.Now(), nil).
			AddRow(1, 1, "Deposit", "M-PESA", "5000.00", "QA12BC34", "", time.Now(), nil))

	req := httptest.NewRequest("GET", "/transactions?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	transactionRouter(false, 1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Contains(t, w.Body.String(), "QA12BC34")
	require.NoError(t, mock.ExpectationsWereMet())
}
