package models

// Profile is a panel user. Role names the organizational duty the user
// currently holds and drives both authorization and report signatures.
type Profile struct {
	Base
	UserID       string `json:"user_id" gorm:"size:255;not null;uniqueIndex"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"size:255"`
	Role         string `json:"role" gorm:"size:50;not null;default:'membro';index"`
	SignatureURL string `json:"signature_url,omitempty" gorm:"size:1000"`
	MemberID     *uint  `json:"member_id,omitempty"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
