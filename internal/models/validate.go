package models

import (
	"fmt"
	"net/mail"
	"strings"
)

// Validator is implemented by models that check their own fields.
type Validator interface {
	Validate() error
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func validEmail(value string) error {
	if value == "" {
		return nil
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("invalid email: %s", value)
	}
	return nil
}

// Validate checks the member fields
func (m *Member) Validate() error {
	if err := required("name", m.Name); err != nil {
		return err
	}
	if m.Category != "" && !isKnownCategory(m.Category) {
		return fmt.Errorf("unknown category: %s", m.Category)
	}
	return validEmail(m.Email)
}

// Validate checks the news fields
func (n *News) Validate() error {
	return required("title", n.Title)
}

// Validate checks the event fields
func (e *CalendarEvent) Validate() error {
	if err := required("title", e.Title); err != nil {
		return err
	}
	if e.StartsAt.IsZero() {
		return fmt.Errorf("starts_at is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("ends_at cannot be before starts_at")
	}
	return nil
}

// Validate checks the minute fields
func (a *Ata) Validate() error {
	if err := required("title", a.Title); err != nil {
		return err
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// Validate checks the ledger entry
func (e *FinanceEntry) Validate() error {
	if err := required("description", e.Description); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	switch e.Type {
	case "", EntryIncome, EntryExpense:
	default:
		return fmt.Errorf("type must be %q or %q", EntryIncome, EntryExpense)
	}
	return nil
}

// Validate checks the roll call
func (r *RollCall) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// Validate checks the profile fields
func (p *Profile) Validate() error {
	if err := required("user_id", p.UserID); err != nil {
		return err
	}
	if err := required("name", p.Name); err != nil {
		return err
	}
	return validEmail(p.Email)
}

// Validate checks a join request
func (j *JoinRequest) Validate() error {
	if err := required("name", j.Name); err != nil {
		return err
	}
	if err := required("email", j.Email); err != nil {
		return err
	}
	return validEmail(j.Email)
}
