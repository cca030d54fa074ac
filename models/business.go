package models

import (
	"time"

	"gorm.io/gorm"
)

// About 业务主体信息（品牌、联系方式、社交链接），站点只保留一条
type About struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:40;not null;default:Rental MS"`
	ShortName   string         `json:"short_name" gorm:"size:30;default:RMS"`
	Slogan      string         `json:"slogan" gorm:"size:255"`
	Details     string         `json:"details" gorm:"type:text"`
	Address     string         `json:"address" gorm:"size:200"`
	FoundedIn   *time.Time     `json:"founded_in"`
	Email       string         `json:"email" gorm:"size:50"`
	PhoneNumber string         `json:"phone_number" gorm:"size:50"`
	Facebook    string         `json:"facebook" gorm:"size:100"`
	Twitter     string         `json:"twitter" gorm:"size:100"`
	LinkedIn    string         `json:"linkedin" gorm:"size:100"`
	Instagram   string         `json:"instagram" gorm:"size:100"`
	TikTok      string         `json:"tiktok" gorm:"size:100"`
	YouTube     string         `json:"youtube" gorm:"size:100"`
	Logo        string         `json:"logo" gorm:"size:255;default:default/logo.png"`
	Wallpaper   string         `json:"wallpaper" gorm:"size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (About) TableName() string {
	return "abouts"
}

// FAQ 常见问题
type FAQ struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Question  string         `json:"question" gorm:"size:100;not null"`
	Answer    string         `json:"answer" gorm:"type:text;not null"`
	IsShown   bool           `json:"is_shown" gorm:"default:true"` // 是否在站点展示
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (FAQ) TableName() string {
	return "faqs"
}

// Gallery 站点相册条目
type Gallery struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Title            string         `json:"title" gorm:"size:50;not null"`
	Details          string         `json:"details" gorm:"type:text"`
	LocationName     string         `json:"location_name" gorm:"size:100"`
	Picture          string         `json:"picture" gorm:"size:255"`
	YoutubeVideoLink string         `json:"youtube_video_link" gorm:"size:100"`
	Date             *time.Time     `json:"date"`
	ShowInIndex      bool           `json:"show_in_index" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Gallery) TableName() string {
	return "galleries"
}

// VisitorMessage 访客通过站点联系表单留下的消息
type VisitorMessage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Sender    string         `json:"sender" gorm:"size:50;not null"`
	Email     string         `json:"email" gorm:"size:80;not null"`
	Body      string         `json:"body" gorm:"type:text;not null"`
	IsRead    bool           `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (VisitorMessage) TableName() string {
	return "visitor_messages"
}

const (
	// FeedbackRateExcellent 极好
	FeedbackRateExcellent = "Excellent"
	// FeedbackRateGood 好
	FeedbackRateGood = "Good"
	// FeedbackRateAverage 一般
	FeedbackRateAverage = "Average"
	// FeedbackRatePoor 差
	FeedbackRatePoor = "Poor"
	// FeedbackRateTerrible 极差
	FeedbackRateTerrible = "Terrible"
)

// FeedbackRates 所有评价等级
func FeedbackRates() []string {
	return []string{
		FeedbackRateExcellent,
		FeedbackRateGood,
		FeedbackRateAverage,
		FeedbackRatePoor,
		FeedbackRateTerrible,
	}
}

// ValidFeedbackRate 校验评价等级
func ValidFeedbackRate(r string) bool {
	for _, v := range FeedbackRates() {
		if v == r {
			return true
		}
	}
	return false
}

// ServiceFeedback 用户对服务的评价，每个用户至多一条
type ServiceFeedback struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SenderID    uint           `json:"sender_id" gorm:"uniqueIndex;not null"`
	Message     string         `json:"message" gorm:"type:text;not null"`
	Rate        string         `json:"rate" gorm:"size:15;not null"`
	SenderRole  string         `json:"sender_role" gorm:"size:40;default:Tenant"`
	ShowInIndex bool           `json:"show_in_index" gorm:"default:true"` // 是否进入站点评价墙
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Sender      User           `json:"-" gorm:"foreignKey:SenderID"`
}

// TableName 设置表名
func (ServiceFeedback) TableName() string {
	return "service_feedbacks"
}
