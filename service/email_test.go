package service

import (
	"testing"

	"rental/config"

	"github.com/stretchr/testify/assert"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateResetEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateResetEmailBody("jdoe", "https://example.com/reset?token=abc")
	assert.Contains(t, body, "jdoe")
	assert.Contains(t, body, "https://example.com/reset?token=abc")
	assert.Contains(t, body, "重置密码")
	assert.Contains(t, body, "30 分钟")
}

func TestGenerateWelcomeEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateWelcomeEmailBody("John Doe", "Attic Room 4")
	assert.Contains(t, body, "John Doe")
	assert.Contains(t, body, "Attic Room 4")
	assert.Contains(t, body, "租约")
}

func TestSendEmail_Disabled(t *testing.T) {
	s := newTestEmailService()

	// 未启用时直接报错，不尝试连接 SMTP
	assert.Error(t, s.SendPasswordResetEmail("a@b.com", "jdoe", "link"))
	assert.Error(t, s.SendWelcomeEmail("a@b.com", "John", "Unit 1"))
	assert.Error(t, s.SendTestEmail("a@b.com"))
}
