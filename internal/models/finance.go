package models

import (
	"math"
	"time"
)

// EntryType tells incomes from expenses.
type EntryType string

const (
	EntryIncome  EntryType = "entrada"
	EntryExpense EntryType = "saida"
)

// FinanceEntry is one line of the chapter ledger.
type FinanceEntry struct {
	Base
	Date        time.Time `json:"date" gorm:"not null;index"`
	Description string    `json:"description" gorm:"size:500;not null"`
	Type        EntryType `json:"type" gorm:"size:20"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Category    string    `json:"category,omitempty" gorm:"size:100"`
}

// TableName specifies the table name for the FinanceEntry model
func (FinanceEntry) TableName() string {
	return "finance_entries"
}

// SignedAmount returns the amount with the sign implied by its type. Entries
// without a type keep the sign they were stored with.
func (e FinanceEntry) SignedAmount() float64 {
	switch e.Type {
	case EntryIncome:
		return math.Abs(e.Amount)
	case EntryExpense:
		return -math.Abs(e.Amount)
	default:
		return e.Amount
	}
}
