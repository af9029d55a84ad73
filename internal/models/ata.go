package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AtaStatus is the lifecycle state of a minute.
type AtaStatus string

const (
	AtaDraft     AtaStatus = "draft"
	AtaPublished AtaStatus = "published"
)

// Attendee is one person listed as present in a minute.
type Attendee struct {
	MemberID uint           `json:"member_id,omitempty"`
	Name     string         `json:"name"`
	Category MemberCategory `json:"category"`
}

// Attendees is stored as a JSON array.
type Attendees []Attendee

// Value implements the driver.Valuer interface for Attendees
func (a Attendees) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for Attendees
func (a *Attendees) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	return json.Unmarshal(scanBytes(value), a)
}

// Ata is a meeting minute. Number and Year are assigned once, when the
// minute is published, and never change afterwards.
type Ata struct {
	Base
	Status         AtaStatus  `json:"status" gorm:"size:20;not null;default:'draft';index"`
	Number         *int       `json:"ata_number,omitempty" gorm:"column:ata_number;uniqueIndex:idx_ata_year_number"`
	Year           *int       `json:"ata_year,omitempty" gorm:"column:ata_year;uniqueIndex:idx_ata_year_number"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	Date           time.Time  `json:"date" gorm:"not null;index"`
	StartTime      string     `json:"start_time,omitempty" gorm:"size:10"`
	EndTime        string     `json:"end_time,omitempty" gorm:"size:10"`
	Location       string     `json:"location,omitempty" gorm:"size:255"`
	Attendees      Attendees  `json:"attendees" gorm:"type:text"`
	PresidingName  string     `json:"presiding_name,omitempty" gorm:"size:255"`
	SecretaryName  string     `json:"secretary_name,omitempty" gorm:"size:255"`
	Correspondence string     `json:"correspondence,omitempty" gorm:"type:text"`
	Agenda         string     `json:"agenda,omitempty" gorm:"type:text"`
	OpenFloor      string     `json:"open_floor,omitempty" gorm:"type:text"`
	Content        string     `json:"content" gorm:"type:text"`
}

// TableName specifies the table name for the Ata model
func (Ata) TableName() string {
	return "atas"
}

// IsPublished reports whether the minute left the draft state
func (a *Ata) IsPublished() bool {
	return a.Status == AtaPublished
}

// AttendeesByCategory groups attendees following CategoryOrder; unknown
// categories follow in the order they first appear.
func (a *Ata) AttendeesByCategory() ([]MemberCategory, map[MemberCategory][]string) {
	groups := make(map[MemberCategory][]string)
	var extra []MemberCategory
	for _, at := range a.Attendees {
		if at.Name == "" {
			continue
		}
		if _, seen := groups[at.Category]; !seen && !isKnownCategory(at.Category) {
			extra = append(extra, at.Category)
		}
		groups[at.Category] = append(groups[at.Category], at.Name)
	}

	var order []MemberCategory
	for _, c := range CategoryOrder {
		if len(groups[c]) > 0 {
			order = append(order, c)
		}
	}
	return append(order, extra...), groups
}

func isKnownCategory(c MemberCategory) bool {
	for _, k := range CategoryOrder {
		if k == c {
			return true
		}
	}
	return false
}
