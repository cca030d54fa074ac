package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account 用户资金账户，只保存一个滚动余额
// 余额只能通过交易入账（service.Ledger.Record）变动，任何路由不得直接修改
type Account struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Account) TableName() string {
	return "accounts"
}

// DebtAmount 欠款金额，余额为负时的绝对值
func (a *Account) DebtAmount() decimal.Decimal {
	if a.Balance.IsNegative() {
		return a.Balance.Neg()
	}
	return decimal.Zero
}
