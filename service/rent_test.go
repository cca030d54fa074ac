package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"rental/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// occupyUnits 给前 n 个单元各绑一个租户，返回用户列表
func occupyUnits(t *testing.T, db *gorm.DB, units []models.Unit, n int) []*models.User {
	t.Helper()
	tenancy := NewTenancy(db)
	var users []*models.User
	for i := 0; i < n; i++ {
		user := createTestUser(t, db, fmt.Sprintf("tenant%d", i+1))
		_, err := tenancy.Assign(AssignParams{UserID: user.ID, UnitID: units[i].ID})
		require.NoError(t, err)
		users = append(users, user)
	}
	return users
}

func TestRentProcessor_Process_Demo(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 5)
	units := groupUnits(t, db, group.ID)
	users := occupyUnits(t, db, units, 3)

	rp := NewRentProcessor(db, models.MeansOther)
	result, err := rp.Process(group.ID, time.Now(), true)
	require.NoError(t, err)

	// 3 个已入住单元各产生一笔 5000 的租金交易
	assert.Len(t, result.ProcessedUnits, 3)
	assert.Empty(t, result.Errors)

	var txs []models.Transaction
	require.NoError(t, db.Find(&txs).Error)
	require.Len(t, txs, 3)
	for _, tx := range txs {
		assert.Equal(t, models.TransactionTypeRentPayment, tx.Type)
		assert.Equal(t, models.MeansOther, tx.Means)
		assert.True(t, tx.Amount.Equal(mustDecimal(t, "5000.00")))
		assert.NotEqual(t, models.CashReferenceSentinel, tx.Reference)
		assert.NoError(t, models.ValidateReference(tx.Means, tx.Reference))
	}

	// 每个租户余额 -5000
	for _, u := range users {
		assert.True(t, accountBalance(t, db, u.AccountID).Equal(mustDecimal(t, "-5000.00")))
	}

	// 已处理单元与单元组都盖了今天的缴租日期
	today := time.Now()
	for _, id := range result.ProcessedUnits {
		var unit models.Unit
		require.NoError(t, db.First(&unit, id).Error)
		require.NotNil(t, unit.LastRentPaymentDate)
		assert.Equal(t, today.Day(), unit.LastRentPaymentDate.Day())
	}
	var updatedGroup models.UnitGroup
	require.NoError(t, db.First(&updatedGroup, group.ID).Error)
	require.NotNil(t, updatedGroup.LastRentPaymentDate)

	// 空置单元不受影响
	var vacant []models.Unit
	require.NoError(t, db.Where("unit_group_id = ? AND occupied_status = ?", group.ID, models.UnitStatusVacant).Find(&vacant).Error)
	assert.Len(t, vacant, 2)

	// 每个租户收到一条缴费通知
	var msgCount int64
	db.Model(&models.PersonalMessage{}).Where("category = ?", models.MessageCategoryPayment).Count(&msgCount)
	assert.EqualValues(t, 3, msgCount)
}

func TestRentProcessor_Process_DemoRerunDuplicates(t *testing.T) {
	// 演示模式没有到期日过滤，同一天重复执行会产生第二轮交易（已知的设计风险）
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 2)
	units := groupUnits(t, db, group.ID)
	occupyUnits(t, db, units, 2)

	rp := NewRentProcessor(db, models.MeansOther)
	_, err := rp.Process(group.ID, time.Now(), true)
	require.NoError(t, err)
	_, err = rp.Process(group.ID, time.Now(), true)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	assert.EqualValues(t, 4, count)
}

func TestRentProcessor_Process_DueDateFilter(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 3)
	units := groupUnits(t, db, group.ID)
	occupyUnits(t, db, units, 3)

	// 月末执行：上月缴过的到期，两个月前的和本月刚缴的都不在本周期内
	asOf := time.Date(2026, time.March, 31, 10, 0, 0, 0, time.Local)
	lastMonth := time.Date(2026, time.February, 15, 0, 0, 0, 0, time.Local)
	twoMonthsAgo := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.Local)
	thisMonth := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)

	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", units[0].ID).
		Update("last_rent_payment_date", lastMonth).Error)
	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", units[1].ID).
		Update("last_rent_payment_date", twoMonthsAgo).Error)
	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", units[2].ID).
		Update("last_rent_payment_date", thisMonth).Error)

	rp := NewRentProcessor(db, models.MeansOther)
	result, err := rp.Process(group.ID, asOf, false)
	require.NoError(t, err)

	require.Len(t, result.ProcessedUnits, 1)
	assert.Equal(t, units[0].ID, result.ProcessedUnits[0])
}

func TestRentProcessor_Process_PartialFailure(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 3)
	units := groupUnits(t, db, group.ID)
	users := occupyUnits(t, db, units, 3)

	// 人为制造一个孤儿单元：有入住状态但租约已被硬删
	require.NoError(t, db.Unscoped().Where("unit_id = ?", units[1].ID).Delete(&models.Tenant{}).Error)

	rp := NewRentProcessor(db, models.MeansOther)
	result, err := rp.Process(group.ID, time.Now(), true)
	require.Error(t, err)

	var partial *PartialBatchError
	require.True(t, errors.As(err, &partial))
	assert.Len(t, partial.Result.ProcessedUnits, 2)
	require.Len(t, partial.Result.Errors, 1)
	assert.Equal(t, units[1].ID, partial.Result.Errors[0].UnitID)

	// 成功的单元已提交，失败的不影响它们
	assert.Len(t, result.ProcessedUnits, 2)
	assert.True(t, accountBalance(t, db, users[0].AccountID).Equal(mustDecimal(t, "-5000.00")))
	assert.True(t, accountBalance(t, db, users[2].AccountID).Equal(mustDecimal(t, "-5000.00")))
	// 失败单元的租户余额未变
	assert.True(t, accountBalance(t, db, users[1].AccountID).IsZero())
}

func TestRentProcessor_Process_GroupNotFound(t *testing.T) {
	db := setupTestDB(t)
	rp := NewRentProcessor(db, models.MeansOther)
	_, err := rp.Process(404, time.Now(), true)
	assert.True(t, IsNotFound(err))
}

func TestRentProcessor_Process_NoRentConfigured(t *testing.T) {
	db := setupTestDB(t)
	house := &models.House{Name: "Bare House"}
	require.NoError(t, db.Create(house).Error)
	group := &models.UnitGroup{HouseID: house.ID, Name: "Bare", AbbreviatedName: "B", NumberOfUnits: 1}
	require.NoError(t, db.Create(group).Error)

	rp := NewRentProcessor(db, models.MeansOther)
	_, err := rp.Process(group.ID, time.Now(), true)
	assert.True(t, IsValidation(err))
}
