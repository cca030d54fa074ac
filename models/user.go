package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// GenderMale 男
	GenderMale = "M"
	// GenderFemale 女
	GenderFemale = "F"
	// GenderOther 其他
	GenderOther = "O"
)

// User 用户模型
// 每个用户在创建时自动获得一个一对一的资金账户（Account），见 service.Ledger.EnsureAccount
type User struct {
	ID                     uint           `json:"id" gorm:"primaryKey"`
	Username               string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password               string         `json:"-" gorm:"size:255;not null"`
	Email                  string         `json:"email" gorm:"size:100"`
	FirstName              string         `json:"first_name" gorm:"size:50"`
	LastName               string         `json:"last_name" gorm:"size:50"`
	Gender                 string         `json:"gender" gorm:"size:10;default:O"` // M/F/O
	IdentityNumber         string         `json:"identity_number" gorm:"uniqueIndex;size:20"` // 身份证/出生证号
	Occupation             string         `json:"occupation" gorm:"size:40"`
	PhoneNumber            string         `json:"phone_number" gorm:"size:15"`
	EmergencyContactNumber string         `json:"emergency_contact_number" gorm:"size:15"`
	Profile                string         `json:"profile" gorm:"size:255;default:default/user.png"` // 头像路径
	IsStaff                bool           `json:"is_staff" gorm:"default:false;index"`
	AccountID              uint           `json:"-" gorm:"uniqueIndex"`
	Account                Account        `json:"-" gorm:"foreignKey:AccountID"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// FullName 用户全名
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
