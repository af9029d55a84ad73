package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base carries the columns every record-store entity shares.
type Base struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ResetBase clears the columns the record store assigns.
func (b *Base) ResetBase() {
	*b = Base{}
}

// JSON is a custom type for free-form JSONB data
type JSON map[string]interface{}

// Value implements the driver.Valuer interface for JSON
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSON
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	return json.Unmarshal(scanBytes(value), j)
}

// IsEmpty reports whether the map holds no keys
func (j JSON) IsEmpty() bool {
	return len(j) == 0
}

func scanBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprintf("%v", v))
	}
}

// All returns every model managed by the record store, in migration order.
func All() []interface{} {
	return []interface{}{
		&Member{},
		&News{},
		&CalendarEvent{},
		&Ata{},
		&FinanceEntry{},
		&RollCall{},
		&Profile{},
		&JoinRequest{},
		&Document{},
	}
}
