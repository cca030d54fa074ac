package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestUnitGroup_GenerateUnitName(t *testing.T) {
	g := &UnitGroup{
		Name:               "Attic",
		AbbreviatedName:    "AT",
		UnitNameFormat:     "%(name)s Room %(unit_number)s",
		UnitAbbrNameFormat: "%(abbreviated_name)sR%(unit_number)s",
	}

	assert.Equal(t, "Attic Room 4", g.GenerateUnitName(4))
	assert.Equal(t, "ATR4", g.GenerateAbbrUnitName(4))
}

func TestUnitGroup_GenerateUnitName_NumberOnly(t *testing.T) {
	// 模板可以只用其中一个占位符
	g := &UnitGroup{
		Name:           "Second Floor",
		UnitNameFormat: "Door %(unit_number)s",
	}
	assert.Equal(t, "Door 12", g.GenerateUnitName(12))
}

func TestValidateNameFormat(t *testing.T) {
	// 合法模板
	assert.NoError(t, ValidateNameFormat("%(name)s Room %(unit_number)s", PlaceholderName, PlaceholderUnitNumber))
	assert.NoError(t, ValidateNameFormat("%(unit_number)s", PlaceholderName, PlaceholderUnitNumber))

	// 空模板
	assert.Error(t, ValidateNameFormat("  ", PlaceholderName, PlaceholderUnitNumber))

	// 没有任何占位符
	assert.Error(t, ValidateNameFormat("Room A", PlaceholderName, PlaceholderUnitNumber))

	// 不在允许集合内的占位符在保存时报错，而不是生成时
	assert.Error(t, ValidateNameFormat("%(floor)s Room %(unit_number)s", PlaceholderName, PlaceholderUnitNumber))
	assert.Error(t, ValidateNameFormat("%(abbreviated_name)s-%(unit_number)s", PlaceholderName, PlaceholderUnitNumber))
}

func TestUnitGroup_ValidateFormats(t *testing.T) {
	// 空模板回落到默认值
	g := &UnitGroup{Name: "Attic", AbbreviatedName: "AT"}
	assert.NoError(t, g.ValidateFormats())
	assert.Equal(t, DefaultUnitNameFormat, g.UnitNameFormat)
	assert.Equal(t, DefaultUnitAbbrNameFormat, g.UnitAbbrNameFormat)

	// 简称模板不允许 %(name)s
	g2 := &UnitGroup{
		UnitNameFormat:     DefaultUnitNameFormat,
		UnitAbbrNameFormat: "%(name)s-%(unit_number)s",
	}
	assert.Error(t, g2.ValidateFormats())
}

func TestAccount_DebtAmount(t *testing.T) {
	a := &Account{}
	assert.True(t, a.DebtAmount().IsZero())

	a.Balance = mustDecimal(t, "150.00")
	assert.True(t, a.DebtAmount().IsZero())

	a.Balance = mustDecimal(t, "-320.50")
	assert.Equal(t, "320.5", a.DebtAmount().String())
}
