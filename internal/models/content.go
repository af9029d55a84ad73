package models

import "time"

// News is a public news item.
type News struct {
	Base
	Title       string     `json:"title" gorm:"size:255;not null"`
	Summary     string     `json:"summary" gorm:"size:1000"`
	Body        string     `json:"body" gorm:"type:text"`
	ImageURL    string     `json:"image_url,omitempty" gorm:"size:1000"`
	Published   bool       `json:"published" gorm:"not null;default:false"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// TableName specifies the table name for the News model
func (News) TableName() string {
	return "news"
}

// CalendarEvent is an entry of the chapter calendar.
type CalendarEvent struct {
	Base
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"size:2000"`
	Location    string     `json:"location" gorm:"size:255"`
	StartsAt    time.Time  `json:"starts_at" gorm:"not null;index"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// TableName specifies the table name for the CalendarEvent model
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// JoinRequest is a membership request sent through the public form.
type JoinRequest struct {
	Base
	Name      string     `json:"name" gorm:"size:255;not null"`
	Email     string     `json:"email" gorm:"size:255;not null"`
	Phone     string     `json:"phone" gorm:"size:50"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Message   string     `json:"message" gorm:"size:2000"`
	Status    string     `json:"status" gorm:"size:50;not null;default:'pendente'"`
}

// TableName specifies the table name for the JoinRequest model
func (JoinRequest) TableName() string {
	return "join_requests"
}
