package service

import (
	"testing"
	"time"

	"rental/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// createTestGroup 创建房产+单元组并补足单元
func createTestGroup(t *testing.T, db *gorm.DB, name string, numberOfUnits int) *models.UnitGroup {
	t.Helper()
	house := &models.House{Name: name + " House", Address: "456 Estate Avenue"}
	require.NoError(t, db.Create(house).Error)

	group := &models.UnitGroup{
		HouseID:            house.ID,
		Name:               name,
		AbbreviatedName:    "AT",
		NumberOfUnits:      numberOfUnits,
		MonthlyRent:        mustDecimal(t, "5000.00"),
		UnitNameFormat:     models.DefaultUnitNameFormat,
		UnitAbbrNameFormat: models.DefaultUnitAbbrNameFormat,
	}
	require.NoError(t, db.Create(group).Error)

	_, err := SyncUnits(db, group)
	require.NoError(t, err)
	return group
}

func groupUnits(t *testing.T, db *gorm.DB, groupID uint) []models.Unit {
	t.Helper()
	var units []models.Unit
	require.NoError(t, db.Where("unit_group_id = ?", groupID).Order("id").Find(&units).Error)
	return units
}

func TestSyncUnits_CreatesSequentialUnits(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 5)

	units := groupUnits(t, db, group.ID)
	require.Len(t, units, 5)
	assert.Equal(t, "Attic Room 1", units[0].Name)
	assert.Equal(t, "ATR1", units[0].AbbreviatedName)
	assert.Equal(t, "Attic Room 5", units[4].Name)
	for _, u := range units {
		assert.Equal(t, models.UnitStatusVacant, u.OccupiedStatus)
	}
}

func TestSyncUnits_RaiseTarget(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 5)

	// 目标从 5 提到 8：恰好新建 6、7、8 三个，已有的不动
	group.NumberOfUnits = 8
	require.NoError(t, db.Model(group).Update("number_of_units", 8).Error)
	created, err := SyncUnits(db, group)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	units := groupUnits(t, db, group.ID)
	require.Len(t, units, 8)
	assert.Equal(t, "Attic Room 6", units[5].Name)
	assert.Equal(t, "Attic Room 7", units[6].Name)
	assert.Equal(t, "Attic Room 8", units[7].Name)
}

func TestSyncUnits_LowerTargetKeepsUnits(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 5)

	// 目标调低不删除单元
	group.NumberOfUnits = 2
	created, err := SyncUnits(db, group)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, groupUnits(t, db, group.ID), 5)
}

func TestTenancy_AssignAndRelease(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 2)
	units := groupUnits(t, db, group.ID)
	user := createTestUser(t, db, "alice")
	tenancy := NewTenancy(db)

	tenant, err := tenancy.Assign(AssignParams{UserID: user.ID, UnitID: units[0].ID})
	require.NoError(t, err)

	// 分配后单元转为已入住，并落了计费基线
	var unit models.Unit
	require.NoError(t, db.First(&unit, units[0].ID).Error)
	assert.Equal(t, models.UnitStatusOccupied, unit.OccupiedStatus)
	require.NotNil(t, unit.LastRentPaymentDate)
	assert.WithinDuration(t, time.Now(), *unit.LastRentPaymentDate, time.Minute)

	// 释放后恢复空置，单元本身保留
	require.NoError(t, tenancy.Release(tenant.ID))
	require.NoError(t, db.First(&unit, units[0].ID).Error)
	assert.Equal(t, models.UnitStatusVacant, unit.OccupiedStatus)

	var count int64
	db.Model(&models.Tenant{}).Count(&count)
	assert.Zero(t, count)
}

func TestTenancy_Assign_Conflict(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	tenancy := NewTenancy(db)

	_, err := tenancy.Assign(AssignParams{UserID: alice.ID, UnitID: units[0].ID})
	require.NoError(t, err)

	// 同一单元不能同时背两个租约
	_, err = tenancy.Assign(AssignParams{UserID: bob.ID, UnitID: units[0].ID})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestTenancy_Assign_ReassignAfterRelease(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	tenancy := NewTenancy(db)

	tenant, err := tenancy.Assign(AssignParams{UserID: alice.ID, UnitID: units[0].ID})
	require.NoError(t, err)
	require.NoError(t, tenancy.Release(tenant.ID))

	// 释放后的单元可以再次分配
	_, err = tenancy.Assign(AssignParams{UserID: bob.ID, UnitID: units[0].ID})
	require.NoError(t, err)
}

func TestTenancy_Assign_UserRentsAgainAfterRelease(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 2)
	units := groupUnits(t, db, group.ID)
	alice := createTestUser(t, db, "alice")
	tenancy := NewTenancy(db)

	tenant, err := tenancy.Assign(AssignParams{UserID: alice.ID, UnitID: units[0].ID})
	require.NoError(t, err)
	require.NoError(t, tenancy.Release(tenant.ID))

	// 释放后同一用户可以再次租入其他单元
	_, err = tenancy.Assign(AssignParams{UserID: alice.ID, UnitID: units[1].ID})
	require.NoError(t, err)

	var unit models.Unit
	require.NoError(t, db.First(&unit, units[1].ID).Error)
	assert.Equal(t, models.UnitStatusOccupied, unit.OccupiedStatus)
}

func TestTenancy_Assign_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	tenancy := NewTenancy(db)

	_, err := tenancy.Assign(AssignParams{UserID: 404, UnitID: units[0].ID})
	assert.True(t, IsNotFound(err))
}

func TestTenancy_Assign_ClosedUnit(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	user := createTestUser(t, db, "alice")
	tenancy := NewTenancy(db)

	require.NoError(t, tenancy.CloseUnit(units[0].ID))

	_, err := tenancy.Assign(AssignParams{UserID: user.ID, UnitID: units[0].ID})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// 重新开放后可以分配
	require.NoError(t, tenancy.ReopenUnit(units[0].ID))
	_, err = tenancy.Assign(AssignParams{UserID: user.ID, UnitID: units[0].ID})
	require.NoError(t, err)
}

func TestTenancy_CloseUnit_Occupied(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	user := createTestUser(t, db, "alice")
	tenancy := NewTenancy(db)

	_, err := tenancy.Assign(AssignParams{UserID: user.ID, UnitID: units[0].ID})
	require.NoError(t, err)

	err = tenancy.CloseUnit(units[0].ID)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestTenancy_ReopenUnit_NotClosed(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Attic", 1)
	units := groupUnits(t, db, group.ID)
	tenancy := NewTenancy(db)

	err := tenancy.ReopenUnit(units[0].ID)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestTenancy_Assign_UnitNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	tenancy := NewTenancy(db)

	_, err := tenancy.Assign(AssignParams{UserID: user.ID, UnitID: 404})
	assert.True(t, IsNotFound(err))
}

func TestTenancy_Release_NotFound(t *testing.T) {
	db := setupTestDB(t)
	tenancy := NewTenancy(db)
	assert.True(t, IsNotFound(tenancy.Release(404)))
}
