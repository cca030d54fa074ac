package service

import (
	"fmt"
	"time"

	"rental/models"

	"gorm.io/gorm"
)

// RentProcessor 月租批处理：对单元组内所有已入住单元逐一扣租
type RentProcessor struct {
	db     *gorm.DB
	ledger *Ledger
	// chargeMeans 批量扣租交易的支付方式，来自配置（默认 Other）
	chargeMeans string
}

// NewRentProcessor 创建月租批处理器
func NewRentProcessor(db *gorm.DB, chargeMeans string) *RentProcessor {
	if chargeMeans == "" {
		chargeMeans = models.MeansOther
	}
	return &RentProcessor{
		db:          db,
		ledger:      NewLedger(db),
		chargeMeans: chargeMeans,
	}
}

// UnitError 批处理中单个单元的失败记录
type UnitError struct {
	UnitID   uint   `json:"unit_id"`
	UnitName string `json:"unit_name"`
	Err      string `json:"error"`
}

// BatchResult 批处理结果
type BatchResult struct {
	GroupID        uint        `json:"group_id"`
	ProcessedUnits []uint      `json:"processed_units"` // 成功扣租的单元ID
	Errors         []UnitError `json:"errors,omitempty"`
}

// PartialBatchError 批处理部分失败：成功的单元已提交，失败清单交由调用方重试
type PartialBatchError struct {
	Result *BatchResult
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("月租批处理部分失败: %d 个单元成功, %d 个单元失败",
		len(e.Result.ProcessedUnits), len(e.Result.Errors))
}

// Process 对单元组执行一轮月租扣款
//
// 选取已入住单元；demo 为 false 时只处理上次缴租日期正好在 asOf 一个
// 自然月之前（即本周期到期）的单元，demo 为 true 时跳过该过滤，便于
// 反复手动测试（同一天重复执行会产生重复扣款，属已知风险）。
//
// 每个单元的交易入账、余额变更、缴租日期更新、站内通知在同一个数据库
// 事务内完成；单个单元失败不会中断批处理，失败清单在结果中返回。
func (rp *RentProcessor) Process(groupID uint, asOf time.Time, demo bool) (*BatchResult, error) {
	var group models.UnitGroup
	if err := rp.db.First(&group, groupID).Error; err != nil {
		return nil, NewNotFoundError("单元组不存在")
	}
	if !group.MonthlyRent.IsPositive() {
		return nil, NewValidationError("单元组月租金额未设置")
	}

	query := rp.db.Where("unit_group_id = ? AND occupied_status = ?", group.ID, models.UnitStatusOccupied)
	if !demo {
		// 本周期到期：上次缴租落在 asOf 的上一个自然月。
		// 先锚定到月初再回退，避免月末日期被 AddDate 规范化进错误的月份
		end := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
		start := end.AddDate(0, -1, 0)
		query = query.Where("last_rent_payment_date >= ? AND last_rent_payment_date < ?", start, end)
	}

	var units []models.Unit
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}

	result := &BatchResult{GroupID: group.ID}
	today := time.Now()

	for i := range units {
		unit := &units[i]
		if err := rp.processUnit(&group, unit, today); err != nil {
			result.Errors = append(result.Errors, UnitError{
				UnitID:   unit.ID,
				UnitName: unit.Name,
				Err:      err.Error(),
			})
			continue
		}
		result.ProcessedUnits = append(result.ProcessedUnits, unit.ID)
	}

	// 批次完成后更新单元组自身的缴租日期
	if err := rp.db.Model(&group).Update("last_rent_payment_date", today).Error; err != nil {
		return result, err
	}

	if len(result.Errors) > 0 {
		return result, &PartialBatchError{Result: result}
	}
	return result, nil
}

// processUnit 单个单元的扣租：交易+余额+日期+通知，一个事务内要么全成要么全败
func (rp *RentProcessor) processUnit(group *models.UnitGroup, unit *models.Unit, today time.Time) error {
	var tenant models.Tenant
	if err := rp.db.Preload("User").Where("unit_id = ?", unit.ID).First(&tenant).Error; err != nil {
		return NewNotFoundError("单元 %s 没有关联租户", unit.Name)
	}

	reference, err := models.GenerateReferenceToken()
	if err != nil {
		return err
	}

	return rp.db.Transaction(func(dbTx *gorm.DB) error {
		if _, err := rp.ledger.RecordInTx(dbTx, tenant.User.AccountID, RecordParams{
			UserID:    tenant.UserID,
			Type:      models.TransactionTypeRentPayment,
			Means:     rp.chargeMeans,
			Amount:    group.MonthlyRent,
			Reference: reference,
			Notes:     "Monthly payment",
		}); err != nil {
			return err
		}

		if err := dbTx.Model(&models.Unit{}).Where("id = ?", unit.ID).
			Update("last_rent_payment_date", today).Error; err != nil {
			return err
		}

		// 站内通知，送达与否不影响扣租结果
		msg := &models.PersonalMessage{
			TenantID: tenant.ID,
			Category: models.MessageCategoryPayment,
			Subject:  "Monthly Rent",
			Content:  "Your monthly rent has been processed successfully.",
		}
		return dbTx.Create(msg).Error
	})
}
