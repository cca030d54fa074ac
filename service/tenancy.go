package service

import (
	"errors"
	"time"

	"rental/models"

	"gorm.io/gorm"
)

// Tenancy 租约生命周期服务：分配/释放单元并同步入住状态
type Tenancy struct {
	db *gorm.DB
}

// NewTenancy 创建租约服务
func NewTenancy(db *gorm.DB) *Tenancy {
	return &Tenancy{db: db}
}

// AssignParams 新租约参数
type AssignParams struct {
	UserID         uint
	UnitID         uint
	LeaseStartDate time.Time
	LeaseEndDate   *time.Time
	ExtraFeeIDs    []uint
}

// Assign 创建租约并把单元置为已入住
// 单元已被其他租约占用时返回冲突错误；首次分配会把单元的
// 上次缴租日期设为当天，作为计费基线
func (t *Tenancy) Assign(p AssignParams) (*models.Tenant, error) {
	var user models.User
	if err := t.db.First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("用户不存在")
		}
		return nil, err
	}

	var unit models.Unit
	if err := t.db.First(&unit, p.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("单元不存在")
		}
		return nil, err
	}
	if unit.OccupiedStatus == models.UnitStatusClosed {
		return nil, NewConflictError("单元 %s 已关闭，不能分配", unit.Name)
	}

	// 显式冲突检查；tenants.unit_id 的唯一索引在并发下兜底
	var count int64
	if err := t.db.Model(&models.Tenant{}).Where("unit_id = ?", p.UnitID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("单元 %s 已被其他租户占用", unit.Name)
	}

	var existing models.Tenant
	if err := t.db.Where("user_id = ?", p.UserID).First(&existing).Error; err == nil {
		return nil, NewConflictError("该用户已有租约")
	}

	leaseStart := p.LeaseStartDate
	if leaseStart.IsZero() {
		leaseStart = time.Now()
	}

	tenant := &models.Tenant{
		UserID:         p.UserID,
		UnitID:         &p.UnitID,
		LeaseStartDate: leaseStart,
		LeaseEndDate:   p.LeaseEndDate,
	}

	err := t.db.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Create(tenant).Error; err != nil {
			return err
		}
		if len(p.ExtraFeeIDs) > 0 {
			var fees []models.ExtraFee
			if err := dbTx.Find(&fees, p.ExtraFeeIDs).Error; err != nil {
				return err
			}
			if err := dbTx.Model(tenant).Association("ExtraFees").Replace(fees); err != nil {
				return err
			}
		}
		// 首次入住：置为已入住并设定计费基线
		today := time.Now()
		return dbTx.Model(&models.Unit{}).Where("id = ?", p.UnitID).
			Updates(map[string]interface{}{
				"occupied_status":        models.UnitStatusOccupied,
				"last_rent_payment_date": today,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// Release 解除租约并把单元恢复为空置
// 删除的是租约记录本身，单元保留
func (t *Tenancy) Release(tenantID uint) error {
	var tenant models.Tenant
	if err := t.db.First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("租约不存在")
		}
		return err
	}

	return t.db.Transaction(func(dbTx *gorm.DB) error {
		if tenant.UnitID != nil {
			if err := dbTx.Model(&models.Unit{}).Where("id = ?", *tenant.UnitID).
				Update("occupied_status", models.UnitStatusVacant).Error; err != nil {
				return err
			}
		}
		// 物理删除：软删除的行会留在 user_id/unit_id 的唯一索引里，
		// 挡住该用户或单元的再次分配
		return dbTx.Unscoped().Delete(&tenant).Error
	})
}

// SyncUnits 把单元组的单元行补足到目标数量
// 只会按顺序号懒创建缺口，目标调低时不会删除已有单元
func SyncUnits(db *gorm.DB, group *models.UnitGroup) (int, error) {
	var current int64
	if err := db.Model(&models.Unit{}).Where("unit_group_id = ?", group.ID).Count(&current).Error; err != nil {
		return 0, err
	}

	created := 0
	for next := int(current) + 1; next <= group.NumberOfUnits; next++ {
		unit := models.Unit{
			UnitGroupID:     group.ID,
			Name:            group.GenerateUnitName(next),
			AbbreviatedName: group.GenerateAbbrUnitName(next),
			OccupiedStatus:  models.UnitStatusVacant,
		}
		if err := db.Create(&unit).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// CloseUnit 管理操作：把单元置为关闭状态，关闭状态不会自动退出
// 已入住的单元需先释放租约才能关闭
func (t *Tenancy) CloseUnit(unitID uint) error {
	var unit models.Unit
	if err := t.db.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("单元不存在")
		}
		return err
	}
	if unit.OccupiedStatus == models.UnitStatusOccupied {
		return NewConflictError("单元 %s 已入住，请先释放租约", unit.Name)
	}
	return t.db.Model(&unit).Update("occupied_status", models.UnitStatusClosed).Error
}

// ReopenUnit 管理操作：把关闭的单元恢复为空置
func (t *Tenancy) ReopenUnit(unitID uint) error {
	var unit models.Unit
	if err := t.db.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("单元不存在")
		}
		return err
	}
	if unit.OccupiedStatus != models.UnitStatusClosed {
		return NewConflictError("单元 %s 未处于关闭状态", unit.Name)
	}
	return t.db.Model(&unit).Update("occupied_status", models.UnitStatusVacant).Error
}
