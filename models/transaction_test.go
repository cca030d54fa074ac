package models

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReference_Cash(t *testing.T) {
	// 现金必须使用占位符 --
	assert.NoError(t, ValidateReference(MeansCash, CashReferenceSentinel))
	assert.Error(t, ValidateReference(MeansCash, "ABC12345"))
	assert.Error(t, ValidateReference(MeansCash, ""))
}

func TestValidateReference_NonCash(t *testing.T) {
	// 非现金：必填、不能为 --、至少4位字母数字下划线连字符
	assert.NoError(t, ValidateReference(MeansMpesa, "QJL7TX91AB"))
	assert.NoError(t, ValidateReference(MeansBank, "TRF_2024-001"))

	assert.Error(t, ValidateReference(MeansMpesa, ""))
	assert.Error(t, ValidateReference(MeansMpesa, CashReferenceSentinel))
	assert.Error(t, ValidateReference(MeansMpesa, "ab"), "少于4位应校验失败")
	assert.Error(t, ValidateReference(MeansBank, "has space"))
	assert.Error(t, ValidateReference(MeansOther, "ref#123"))
}

func TestTransaction_Delta(t *testing.T) {
	amount := decimal.RequireFromString("5000.00")

	deposit := &Transaction{Type: TransactionTypeDeposit, Amount: amount}
	assert.True(t, deposit.Delta().Equal(amount))

	// 取出、租金、杂费都是负向
	for _, typ := range []string{TransactionTypeWithdrawal, TransactionTypeRentPayment, TransactionTypeFeePayment} {
		tx := &Transaction{Type: typ, Amount: amount}
		assert.True(t, tx.Delta().Equal(amount.Neg()), typ)
	}
}

func TestValidTransactionTypeAndMeans(t *testing.T) {
	for _, typ := range TransactionTypes() {
		assert.True(t, ValidTransactionType(typ))
	}
	assert.False(t, ValidTransactionType("Refund"))

	for _, m := range TransactionMeans() {
		assert.True(t, ValidTransactionMeans(m))
	}
	assert.False(t, ValidTransactionMeans("Cheque"))
}

func TestGenerateReferenceToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		token, err := GenerateReferenceToken()
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(token), token)
		seen[token] = true
	}
	assert.Greater(t, len(seen), 1, "令牌应具有随机性")

	// 生成的令牌满足非现金引用号规则
	token, err := GenerateReferenceToken()
	require.NoError(t, err)
	assert.NoError(t, ValidateReference(MeansOther, token))
}
