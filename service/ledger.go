package service

import (
	"errors"

	"rental/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger 交易入账服务：创建不可变交易记录并同步账户余额
// 余额更新使用单条 UPDATE accounts SET balance = balance + ? 表达式，
// 由数据库行锁串行化并发入账，避免读-改-写丢失更新
type Ledger struct {
	db *gorm.DB
}

// NewLedger 创建入账服务
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordParams 入账参数
type RecordParams struct {
	UserID    uint
	Type      string // Deposit/Withdrawal/RentPayment/FeePayment
	Means     string // Cash/M-PESA/Bank/Other
	Amount    decimal.Decimal
	Reference string
	Notes     string
}

// Record 校验并入账一笔交易
// 创建交易记录和余额变更在同一个数据库事务内完成，要么全部成功要么全部回滚
func (l *Ledger) Record(p RecordParams) (*models.Transaction, error) {
	if !models.ValidTransactionType(p.Type) {
		return nil, NewValidationError("无效的交易类型: %s", p.Type)
	}
	if !models.ValidTransactionMeans(p.Means) {
		return nil, NewValidationError("无效的支付方式: %s", p.Means)
	}
	if !p.Amount.IsPositive() {
		return nil, NewValidationError("交易金额必须大于0")
	}
	if err := models.ValidateReference(p.Means, p.Reference); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var user models.User
	if err := l.db.First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("用户不存在")
		}
		return nil, err
	}

	tx := &models.Transaction{
		UserID:    p.UserID,
		Type:      p.Type,
		Means:     p.Means,
		Amount:    p.Amount,
		Reference: p.Reference,
		Notes:     p.Notes,
	}

	err := l.db.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Create(tx).Error; err != nil {
			return err
		}
		return applyDelta(dbTx, user.AccountID, tx.Delta())
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordInTx 在已有事务内入账，供批处理等需要更大原子单元的调用方使用
// 调用方负责传入用户的账户ID，校验规则与 Record 相同
func (l *Ledger) RecordInTx(dbTx *gorm.DB, accountID uint, p RecordParams) (*models.Transaction, error) {
	if !models.ValidTransactionType(p.Type) {
		return nil, NewValidationError("无效的交易类型: %s", p.Type)
	}
	if !models.ValidTransactionMeans(p.Means) {
		return nil, NewValidationError("无效的支付方式: %s", p.Means)
	}
	if !p.Amount.IsPositive() {
		return nil, NewValidationError("交易金额必须大于0")
	}
	if err := models.ValidateReference(p.Means, p.Reference); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	tx := &models.Transaction{
		UserID:    p.UserID,
		Type:      p.Type,
		Means:     p.Means,
		Amount:    p.Amount,
		Reference: p.Reference,
		Notes:     p.Notes,
	}
	if err := dbTx.Create(tx).Error; err != nil {
		return nil, err
	}
	if err := applyDelta(dbTx, accountID, tx.Delta()); err != nil {
		return nil, err
	}
	return tx, nil
}

// applyDelta 把有符号金额累加到账户余额上
func applyDelta(db *gorm.DB, accountID uint, delta decimal.Decimal) error {
	res := db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("账户不存在")
	}
	return nil
}

// EnsureAccount 为用户创建资金账户，注册流程在创建用户记录前调用
func (l *Ledger) EnsureAccount(dbTx *gorm.DB) (*models.Account, error) {
	account := &models.Account{Balance: decimal.Zero}
	if err := dbTx.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}
