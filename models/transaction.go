package models

import (
	"crypto/rand"
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// TransactionTypeDeposit 存入，余额增加
	TransactionTypeDeposit = "Deposit"
	// TransactionTypeWithdrawal 取出，余额减少
	TransactionTypeWithdrawal = "Withdrawal"
	// TransactionTypeRentPayment 租金扣款，余额减少
	TransactionTypeRentPayment = "RentPayment"
	// TransactionTypeFeePayment 杂费扣款，余额减少
	TransactionTypeFeePayment = "FeePayment"
)

const (
	// MeansCash 现金
	MeansCash = "Cash"
	// MeansMpesa M-PESA
	MeansMpesa = "M-PESA"
	// MeansBank 银行
	MeansBank = "Bank"
	// MeansOther 其他
	MeansOther = "Other"
)

// CashReferenceSentinel 现金交易的引用号占位符
const CashReferenceSentinel = "--"

// ErrTransactionImmutable 交易记录一经入账不可修改
var ErrTransactionImmutable = errors.New("交易记录不可修改")

// 非现金引用号：至少4位的字母/数字/下划线/连字符
var referencePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,}$`)

// Transaction 资金交易记录，入账后不可变
type Transaction struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	Type      string          `json:"type" gorm:"size:20;not null;index"`  // Deposit/Withdrawal/RentPayment/FeePayment
	Means     string          `json:"means" gorm:"size:20;not null"`       // Cash/M-PESA/Bank/Other
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Reference string          `json:"reference" gorm:"size:100;not null"` // 交易引用号，现金为 --
	Notes     string          `json:"notes" gorm:"size:255"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
	User      User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeUpdate 拒绝对已入账交易的任何修改
// 原始实现中该检查被注释禁用过，这里视不可变性为正式约束
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrTransactionImmutable
}

// Delta 该交易对账户余额的有符号影响：存入为正，其余为负
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionTypeDeposit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionTypes 所有交易类型
func TransactionTypes() []string {
	return []string{
		TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeRentPayment,
		TransactionTypeFeePayment,
	}
}

// TransactionMeans 所有支付方式
func TransactionMeans() []string {
	return []string{MeansCash, MeansMpesa, MeansBank, MeansOther}
}

// ValidTransactionType 校验交易类型
func ValidTransactionType(t string) bool {
	for _, v := range TransactionTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ValidTransactionMeans 校验支付方式
func ValidTransactionMeans(m string) bool {
	for _, v := range TransactionMeans() {
		if v == m {
			return true
		}
	}
	return false
}

// GenerateReferenceToken 生成8位大写字母+数字的引用号，用于系统内部生成的交易
func GenerateReferenceToken() (string, error) {
	const population = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = population[int(b)%len(population)]
	}
	return string(buf), nil
}

// ValidateReference 校验支付方式与引用号的组合
// 现金必须使用占位符 --；非现金必须提供至少4位的字母数字引用号且不能为 --
func ValidateReference(means, reference string) error {
	if means == MeansCash {
		if reference != CashReferenceSentinel {
			return errors.New("现金交易的引用号必须为 --")
		}
		return nil
	}
	if reference == "" {
		return errors.New("引用号不能为空")
	}
	if reference == CashReferenceSentinel {
		return errors.New("非现金交易的引用号不能为 --")
	}
	if !referencePattern.MatchString(reference) {
		return errors.New("引用号格式错误，至少4位字母、数字、下划线或连字符")
	}
	return nil
}
