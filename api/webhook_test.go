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

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/mpesa", NewWebhookHandler().MpesaConfirmation)
	return router
}

func TestWebhookHandler_Mpesa_DuplicateReference(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 同一引用号已入账，重放回调必须被拒绝
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs("QCX12AB34C", "M-PESA", 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(7, 1, "Deposit", "M-PESA", "5000.00", "QCX12AB34C", "", time.Now(), nil))

	body := `{"TransID":"QCX12AB34C","TransAmount":"5000.00","BillRefNumber":"john","MSISDN":"254712345678"}`
	req := httptest.NewRequest("POST", "/webhooks/mpesa", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	assert.Contains(t, w.Body.String(), "该引用号已入账")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookHandler_Mpesa_UnknownAccount(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs("QCX99ZZ88X", "M-PESA", 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns()))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	body := `{"TransID":"QCX99ZZ88X","TransAmount":"5000.00","BillRefNumber":"ghost"}`
	req := httptest.NewRequest("POST", "/webhooks/mpesa", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookHandler_Mpesa_BadAmount(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"TransID":"QCX99ZZ88X","TransAmount":"-5","BillRefNumber":"john"}`
	req := httptest.NewRequest("POST", "/webhooks/mpesa", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
