package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant 租约记录：把一个用户绑定到至多一个单元
// 分配/释放由 service 层完成并同步单元的入住状态；
// 删除单元会级联删除其租户，删除租户不会删除单元
type Tenant struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	UnitID         *uint          `json:"unit_id" gorm:"uniqueIndex"` // 数据库层唯一约束兜底防止双重占用
	LeaseStartDate time.Time      `json:"lease_start_date"`
	LeaseEndDate   *time.Time     `json:"lease_end_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
	Unit           *Unit          `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"` // 删除单元级联删除租约
	ExtraFees      []ExtraFee     `json:"-" gorm:"many2many:tenant_extra_fees"`
}

// TableName 设置表名
func (Tenant) TableName() string {
	return "tenants"
}
