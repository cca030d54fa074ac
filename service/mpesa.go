package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"rental/config"
)

// M-PESA Express (STK push) 模拟接口客户端
// 推送只是发起支付弹窗，实际入账由网关回调（api.WebhookHandler）驱动

var (
	kenyanLocalPrefix = regexp.MustCompile(`^(07|011)`)
	kenyanIntlPrefix  = regexp.MustCompile(`^\+254`)
)

// MpesaClient M-PESA 支付推送客户端
type MpesaClient struct {
	cfg    *config.MpesaConfig
	client *http.Client
}

// NewMpesaClient 创建 M-PESA 客户端
func NewMpesaClient(cfg *config.MpesaConfig) *MpesaClient {
	return &MpesaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// stkPushRequest STK 推送请求体
type stkPushRequest struct {
	Token             string `json:"token"`
	Authorization     string `json:"authorization"`
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"password"`
	Timestamp         string `json:"timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// NormalizePhoneNumber 把 07.../011.../+254... 格式统一成 254 开头的国际格式
func NormalizePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	switch {
	case kenyanLocalPrefix.MatchString(phone):
		return "254" + strings.TrimPrefix(phone, "0"), nil
	case kenyanIntlPrefix.MatchString(phone):
		return "254" + phone[4:], nil
	default:
		return "", NewValidationError("无效的电话号码: %s", phone)
	}
}

// SendPaymentPush 向指定号码发送支付弹窗
func (m *MpesaClient) SendPaymentPush(phoneNumber, amount, accountReference string) error {
	if !m.cfg.Enabled || m.cfg.Authorization == "" {
		// 未配置网关时静默跳过，与邮件服务的禁用行为一致
		return nil
	}

	normalized, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return err
	}

	payload := stkPushRequest{
		Token:             m.cfg.Token,
		Authorization:     m.cfg.Authorization,
		BusinessShortCode: m.cfg.BusinessShortCode,
		Password:          m.cfg.Password,
		Timestamp:         time.Now().Format("20060102150405"),
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            normalized,
		PartyB:            m.cfg.BusinessShortCode,
		PhoneNumber:       normalized,
		CallBackURL:       m.cfg.CallbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   "Rent payment",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", m.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("请求支付网关失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("支付网关返回错误 %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
