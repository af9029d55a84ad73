package models

import (
	"strings"
	"time"
)

// MemberCategory groups members on rosters and minutes.
type MemberCategory string

const (
	CategoryDeMolay   MemberCategory = "demolay"
	CategorySenior    MemberCategory = "senior"
	CategoryMacom     MemberCategory = "macom"
	CategoryConvidado MemberCategory = "convidado"
)

// CategoryOrder is the order categories are listed in generated documents.
var CategoryOrder = []MemberCategory{CategoryDeMolay, CategorySenior, CategoryMacom, CategoryConvidado}

// Label returns the plural heading used for the category in documents.
func (c MemberCategory) Label() string {
	switch c {
	case CategoryDeMolay:
		return "DeMolays"
	case CategorySenior:
		return "Seniores DeMolay"
	case CategoryMacom:
		return "Maçons"
	case CategoryConvidado:
		return "Convidados"
	default:
		if c == "" {
			return "Outros"
		}
		return strings.ToUpper(string(c[:1])) + string(c[1:])
	}
}

// Member is a chapter member.
type Member struct {
	Base
	Name      string         `json:"name" gorm:"size:255;not null"`
	Category  MemberCategory `json:"category" gorm:"size:50;not null;default:'demolay'"`
	Status    string         `json:"status" gorm:"size:50;not null;default:'ativo'"`
	BirthDate *time.Time     `json:"birth_date,omitempty"`
	Phone     string         `json:"phone,omitempty" gorm:"size:50"`
	Email     string         `json:"email,omitempty" gorm:"size:255"`
	PhotoURL  string         `json:"photo_url,omitempty" gorm:"size:1000"`
	Public    bool           `json:"public" gorm:"not null"`
}

// TableName specifies the table name for the Member model
func (Member) TableName() string {
	return "members"
}

// IsActive reports whether the member is active
func (m *Member) IsActive() bool {
	return m.Status == "ativo"
}
