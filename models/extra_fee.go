package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExtraFee 租金以外的附加费用，可同时挂在多个租户上
type ExtraFee struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Details   string          `json:"details" gorm:"size:255"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 设置表名
func (ExtraFee) TableName() string {
	return "extra_fees"
}
