package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// ConcernStatusOpen 待处理
	ConcernStatusOpen = "Open"
	// ConcernStatusInProgress 处理中
	ConcernStatusInProgress = "In Progress"
	// ConcernStatusResolved 已解决
	ConcernStatusResolved = "Resolved"
	// ConcernStatusClosed 已关闭
	ConcernStatusClosed = "Closed"
)

// ConcernStatuses 所有诉求状态
func ConcernStatuses() []string {
	return []string{
		ConcernStatusOpen,
		ConcernStatusInProgress,
		ConcernStatusResolved,
		ConcernStatusClosed,
	}
}

// ValidConcernStatus 校验诉求状态
func ValidConcernStatus(s string) bool {
	for _, v := range ConcernStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Concern 租户诉求/投诉
type Concern struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	About     string         `json:"about" gorm:"size:200;not null"`
	Details   string         `json:"details" gorm:"type:text;not null"`
	Response  string         `json:"response" gorm:"type:text"` // 管理方回复
	Status    string         `json:"status" gorm:"size:20;not null;default:Open;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Tenant    Tenant         `json:"-" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Concern) TableName() string {
	return "concerns"
}
