package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// MessageCategoryGeneral 一般通知
	MessageCategoryGeneral = "General"
	// MessageCategoryPayment 缴费相关
	MessageCategoryPayment = "Payment"
	// MessageCategoryMaintenance 维修相关
	MessageCategoryMaintenance = "Maintenance"
	// MessageCategoryWarning 警告
	MessageCategoryWarning = "Warning"
	// MessageCategoryOther 其他
	MessageCategoryOther = "Other"
)

// MessageCategories 所有消息类别
func MessageCategories() []string {
	return []string{
		MessageCategoryGeneral,
		MessageCategoryPayment,
		MessageCategoryMaintenance,
		MessageCategoryWarning,
		MessageCategoryOther,
	}
}

// ValidMessageCategory 校验消息类别
func ValidMessageCategory(c string) bool {
	for _, v := range MessageCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// Community 社群，如某房产的 WhatsApp 群
type Community struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	SocialMediaLink string         `json:"social_media_link" gorm:"size:200"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Community) TableName() string {
	return "communities"
}

// CommunityMessage 发给一个或多个社群的广播消息
type CommunityMessage struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Category    string         `json:"category" gorm:"size:20;not null;default:General"`
	Subject     string         `json:"subject" gorm:"size:200;not null"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Communities []Community    `json:"-" gorm:"many2many:community_message_communities"`
	ReadBy      []Tenant       `json:"-" gorm:"many2many:community_message_reads"` // 已读租户
}

// TableName 设置表名
func (CommunityMessage) TableName() string {
	return "community_messages"
}

// PersonalMessage 发给单个租户的站内消息
type PersonalMessage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	Category  string         `json:"category" gorm:"size:20;not null;default:General"`
	Subject   string         `json:"subject" gorm:"size:200;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	IsRead    bool           `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Tenant    Tenant         `json:"-" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (PersonalMessage) TableName() string {
	return "personal_messages"
}
