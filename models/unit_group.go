package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 单元名格式模板的占位符
const (
	PlaceholderName            = "%(name)s"
	PlaceholderAbbreviatedName = "%(abbreviated_name)s"
	PlaceholderUnitNumber      = "%(unit_number)s"
)

// 默认格式模板
const (
	DefaultUnitNameFormat     = "%(name)s Room %(unit_number)s"
	DefaultUnitAbbrNameFormat = "%(abbreviated_name)sR%(unit_number)s"
)

// 匹配模板中所有 %(xxx)s 形式的占位符
var placeholderPattern = regexp.MustCompile(`%\(([a-z_]+)\)s`)

// UnitGroup 单元组：同一房产内共享租金条款与命名规则的一批单元
// 持久化的 Unit 行数不得超过 NumberOfUnits；提高目标数量后缺口由
// service.SyncUnits 懒创建补足，调低目标数量不会删除已有单元
type UnitGroup struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	HouseID             uint            `json:"house_id" gorm:"index;not null"`
	Name                string          `json:"name" gorm:"size:100;not null"` // 如 Second Floor
	AbbreviatedName     string          `json:"abbreviated_name" gorm:"size:20;not null"` // 如 SF
	Description         string          `json:"description" gorm:"type:text"`
	NumberOfUnits       int             `json:"number_of_units" gorm:"not null"`
	Picture             string          `json:"picture" gorm:"size:255;default:default/house.jpg"`
	MonthlyRent         decimal.Decimal `json:"monthly_rent" gorm:"type:decimal(10,2);not null"`
	DepositAmount       decimal.Decimal `json:"deposit_amount" gorm:"type:decimal(10,2);not null;default:0"`
	// 默认模板由 ValidateFormats 填充，不写进列默认值，占位符会破坏 DDL
	UnitNameFormat      string          `json:"unit_name_format" gorm:"size:200"`
	UnitAbbrNameFormat  string          `json:"unit_abbreviated_name_format" gorm:"size:200"`
	LastRentPaymentDate *time.Time      `json:"last_rent_payment_date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `json:"-" gorm:"index"`
	House               House           `json:"-" gorm:"foreignKey:HouseID"`
	Units               []Unit          `json:"-" gorm:"foreignKey:UnitGroupID;constraint:OnDelete:CASCADE"`
	Caretakers          []User          `json:"-" gorm:"many2many:unit_group_caretakers"`
}

// TableName 设置表名
func (UnitGroup) TableName() string {
	return "unit_groups"
}

// ValidateNameFormat 校验单元名格式模板
// 模板必须包含至少一个允许的占位符，且不得出现允许集合之外的占位符
func ValidateNameFormat(format string, allowed ...string) error {
	if strings.TrimSpace(format) == "" {
		return fmt.Errorf("格式模板不能为空")
	}
	matches := placeholderPattern.FindAllStringSubmatch(format, -1)
	if len(matches) == 0 {
		return fmt.Errorf("格式模板必须包含占位符，可用: %s", strings.Join(allowed, ", "))
	}
	for _, m := range matches {
		token := "%(" + m[1] + ")s"
		ok := false
		for _, a := range allowed {
			if token == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("不支持的占位符 %s，可用: %s", token, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// ValidateFormats 校验两个命名模板，在保存单元组时调用
func (g *UnitGroup) ValidateFormats() error {
	if g.UnitNameFormat == "" {
		g.UnitNameFormat = DefaultUnitNameFormat
	}
	if g.UnitAbbrNameFormat == "" {
		g.UnitAbbrNameFormat = DefaultUnitAbbrNameFormat
	}
	if err := ValidateNameFormat(g.UnitNameFormat, PlaceholderName, PlaceholderUnitNumber); err != nil {
		return fmt.Errorf("单元名格式: %w", err)
	}
	if err := ValidateNameFormat(g.UnitAbbrNameFormat, PlaceholderAbbreviatedName, PlaceholderUnitNumber); err != nil {
		return fmt.Errorf("单元简称格式: %w", err)
	}
	return nil
}

// GenerateUnitName 按模板生成第 unitNumber 个单元的名称
func (g *UnitGroup) GenerateUnitName(unitNumber int) string {
	return strings.NewReplacer(
		PlaceholderName, g.Name,
		PlaceholderUnitNumber, strconv.Itoa(unitNumber),
	).Replace(g.UnitNameFormat)
}

// GenerateAbbrUnitName 按模板生成第 unitNumber 个单元的简称
func (g *UnitGroup) GenerateAbbrUnitName(unitNumber int) string {
	return strings.NewReplacer(
		PlaceholderAbbreviatedName, g.AbbreviatedName,
		PlaceholderUnitNumber, strconv.Itoa(unitNumber),
	).Replace(g.UnitAbbrNameFormat)
}
