package models

import "time"

// DocumentStatus is the archive state of a generated document.
type DocumentStatus string

const (
	DocumentArchived DocumentStatus = "archived"
	DocumentFailed   DocumentStatus = "failed"
)

// Document records a generated file kept in storage.
type Document struct {
	Base
	Kind        string         `json:"kind" gorm:"size:50;not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Filename    string         `json:"filename" gorm:"size:255;not null"`
	MimeType    string         `json:"mime_type" gorm:"size:255;not null"`
	Size        int64          `json:"size"`
	Status      DocumentStatus `json:"status" gorm:"size:50;not null;default:'archived'"`
	FileKey     string         `json:"file_key,omitempty" gorm:"size:255"`
	GeneratedAt time.Time      `json:"generated_at"`
	Parameters  JSON           `json:"parameters,omitempty" gorm:"type:text"`
	CreatedBy   string         `json:"created_by" gorm:"size:255;not null"`
}

// TableName specifies the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// IsArchived returns true if the file was stored
func (d *Document) IsArchived() bool {
	return d.Status == DocumentArchived
}

// HasFile reports whether the record points at a stored file
func (d *Document) HasFile() bool {
	return d.FileKey != ""
}
