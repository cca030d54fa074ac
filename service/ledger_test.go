package service

import (
	"testing"

	"rental/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 内存 sqlite，service 层测试走真实 SQL
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.User{},
		&models.Transaction{},
		&models.House{},
		&models.UnitGroup{},
		&models.Unit{},
		&models.Tenant{},
		&models.ExtraFee{},
		&models.PersonalMessage{},
	))
	return db
}

// createTestUser 创建带资金账户的用户
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	account := &models.Account{Balance: decimal.Zero}
	require.NoError(t, db.Create(account).Error)
	user := &models.User{
		Username:       username,
		Password:       "hash",
		IdentityNumber: username + "-id",
		AccountID:      account.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func accountBalance(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var account models.Account
	require.NoError(t, db.First(&account, accountID).Error)
	return account.Balance
}

func TestLedger_Record_Deposit(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	ledger := NewLedger(db)

	tx, err := ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansMpesa,
		Amount:    mustDecimal(t, "5000.00"),
		Reference: "QJL7TX91",
	})
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)

	assert.Equal(t, "5000", accountBalance(t, db, user.AccountID).String())
}

func TestLedger_Record_BalanceSequence(t *testing.T) {
	// balance == sum(deposits) - sum(withdrawals+rent+fees)，精确小数无漂移
	db := setupTestDB(t)
	user := createTestUser(t, db, "bob")
	ledger := NewLedger(db)

	steps := []struct {
		typ    string
		amount string
	}{
		{models.TransactionTypeDeposit, "10000.00"},
		{models.TransactionTypeRentPayment, "5000.00"},
		{models.TransactionTypeFeePayment, "350.25"},
		{models.TransactionTypeDeposit, "0.30"},
		{models.TransactionTypeWithdrawal, "1000.05"},
	}
	for _, s := range steps {
		_, err := ledger.Record(RecordParams{
			UserID:    user.ID,
			Type:      s.typ,
			Means:     models.MeansBank,
			Amount:    mustDecimal(t, s.amount),
			Reference: "BANKREF1",
		})
		require.NoError(t, err)
	}

	// 10000 - 5000 - 350.25 + 0.30 - 1000.05 = 3650
	assert.True(t, accountBalance(t, db, user.AccountID).Equal(mustDecimal(t, "3650.00")))
}

func TestLedger_Record_DebtAmount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "carol")
	ledger := NewLedger(db)

	_, err := ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeRentPayment,
		Means:     models.MeansOther,
		Amount:    mustDecimal(t, "4200.00"),
		Reference: "SYS00001",
	})
	require.NoError(t, err)

	var account models.Account
	require.NoError(t, db.First(&account, user.AccountID).Error)
	assert.True(t, account.DebtAmount().Equal(mustDecimal(t, "4200.00")))
}

func TestLedger_Record_ReferenceValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "dave")
	ledger := NewLedger(db)

	// 非现金引用号过短：校验失败，不产生任何状态变更
	_, err := ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansMpesa,
		Amount:    mustDecimal(t, "100.00"),
		Reference: "ab",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// 现金必须使用 -- 占位符
	_, err = ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansCash,
		Amount:    mustDecimal(t, "100.00"),
		Reference: "CASH1234",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	assert.Zero(t, count, "校验失败不应写入交易")
	assert.True(t, accountBalance(t, db, user.AccountID).IsZero(), "校验失败不应动余额")
}

func TestLedger_Record_InvalidAmountAndType(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "erin")
	ledger := NewLedger(db)

	_, err := ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      "Refund",
		Means:     models.MeansCash,
		Amount:    mustDecimal(t, "10.00"),
		Reference: models.CashReferenceSentinel,
	})
	assert.True(t, IsValidation(err))

	_, err = ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansCash,
		Amount:    decimal.Zero,
		Reference: models.CashReferenceSentinel,
	})
	assert.True(t, IsValidation(err))
}

func TestLedger_Record_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)

	_, err := ledger.Record(RecordParams{
		UserID:    999,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansCash,
		Amount:    mustDecimal(t, "10.00"),
		Reference: models.CashReferenceSentinel,
	})
	assert.True(t, IsNotFound(err))
}

func TestTransaction_Immutable(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "frank")
	ledger := NewLedger(db)

	tx, err := ledger.Record(RecordParams{
		UserID:    user.ID,
		Type:      models.TransactionTypeDeposit,
		Means:     models.MeansCash,
		Amount:    mustDecimal(t, "100.00"),
		Reference: models.CashReferenceSentinel,
	})
	require.NoError(t, err)

	// 入账后任何修改都被 BeforeUpdate 钩子拒绝
	err = db.Model(tx).Update("notes", "edited").Error
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransactionImmutable)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
