package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Presence maps a member id (decimal string) to whether it was present.
type Presence map[string]bool

// Value implements the driver.Valuer interface for Presence
func (p Presence) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for Presence
func (p *Presence) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	return json.Unmarshal(scanBytes(value), p)
}

// RollCall is the attendance record of one date.
type RollCall struct {
	Base
	Date     time.Time `json:"date" gorm:"not null;index"`
	Title    string    `json:"title" gorm:"size:255"`
	Presence Presence  `json:"presence" gorm:"type:text"`
}

// TableName specifies the table name for the RollCall model
func (RollCall) TableName() string {
	return "roll_calls"
}
