package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PaymentAccount 收款账户信息（如 M-PESA Paybill），展示给租户用于主动缴费
type PaymentAccount struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"size:50;not null"` // 如 M-PESA
	PaybillNumber string         `json:"paybill_number" gorm:"size:100;not null"` // 如 247247
	// AccountNumber 支持 %(id)d %(username)s %(phone_number)s %(email)s 占位符
	AccountNumber string         `json:"account_number" gorm:"size:100;default:%(username)s"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	Details       string         `json:"details" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (PaymentAccount) TableName() string {
	return "payment_accounts"
}

// RenderAccountNumber 把账号模板渲染成具体用户的收款账号
func (p *PaymentAccount) RenderAccountNumber(user *User) string {
	return strings.NewReplacer(
		"%(id)d", strconv.FormatUint(uint64(user.ID), 10),
		"%(username)s", user.Username,
		"%(phone_number)s", user.PhoneNumber,
		"%(email)s", user.Email,
	).Replace(p.AccountNumber)
}
