package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UnitStatusOccupied 已入住
	UnitStatusOccupied = "Occupied"
	// UnitStatusVacant 空置，初始状态
	UnitStatusVacant = "Vacant"
	// UnitStatusClosed 关闭，管理员操作进入，不会自动退出
	UnitStatusClosed = "Closed"
)

// Unit 单元（房间），属于一个单元组，至多被一个租户占用
type Unit struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	UnitGroupID         uint           `json:"unit_group_id" gorm:"index;not null"`
	Name                string         `json:"name" gorm:"size:100;not null"` // 如 Second Floor Room 2
	AbbreviatedName     string         `json:"abbreviated_name" gorm:"size:20;not null"` // 如 SFR2
	OccupiedStatus      string         `json:"occupied_status" gorm:"size:20;not null;default:Vacant;index"`
	LastRentPaymentDate *time.Time     `json:"last_rent_payment_date"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
	UnitGroup           UnitGroup      `json:"-" gorm:"foreignKey:UnitGroupID"`
}

// TableName 设置表名
func (Unit) TableName() string {
	return "units"
}

// UnitStatuses 所有单元状态
func UnitStatuses() []string {
	return []string{UnitStatusOccupied, UnitStatusVacant, UnitStatusClosed}
}

// ValidUnitStatus 校验单元状态
func ValidUnitStatus(s string) bool {
	for _, v := range UnitStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
