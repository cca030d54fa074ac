package models

import (
	"time"

	"gorm.io/gorm"
)

// House 房产，由若干单元组（UnitGroup）构成
type House struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Address     string         `json:"address" gorm:"size:200"`
	Description string         `json:"description" gorm:"type:text"`
	Picture     string         `json:"picture" gorm:"size:255;default:default/apartment.jpg"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	UnitGroups  []UnitGroup    `json:"-" gorm:"foreignKey:HouseID"`
}

// TableName 设置表名
func (House) TableName() string {
	return "houses"
}
