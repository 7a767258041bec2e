package domain

import (
	"regexp"
	"strings"
)

const (
	DefaultCurrency = "ARS"
	DefaultTimezone = "America/Argentina/Buenos_Aires"

	minNameLen = 2
	maxNameLen = 100
	minSlugLen = 2
	maxSlugLen = 50
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// BasicInfo is the step-1 aggregate of the onboarding wizard and the
// tenant fields it persists.
type BasicInfo struct {
	Name            string `json:"name"`
	LegalName       string `json:"legal_name"`
	Slug            string `json:"slug"`
	DefaultCurrency string `json:"default_currency"`
	Timezone        string `json:"timezone"`
	Status          Status `json:"status"`
	NotesInternal   string `json:"notes_internal"`
}

// ApplyDefaults fills currency, timezone and status when unset.
func (b *BasicInfo) ApplyDefaults() {
	if strings.TrimSpace(b.DefaultCurrency) == "" {
		b.DefaultCurrency = DefaultCurrency
	}
	if strings.TrimSpace(b.Timezone) == "" {
		b.Timezone = DefaultTimezone
	}
	if b.Status == "" {
		b.Status = StatusTrial
	}
}

// Validate checks the step-1 constraints. Advancing past step 1 and
// submitting both require it to pass.
func (b BasicInfo) Validate() error {
	name := strings.TrimSpace(b.Name)
	if len(name) < minNameLen || len(name) > maxNameLen {
		return ErrInvalidName
	}
	if !ValidSlug(b.Slug) {
		return ErrInvalidSlug
	}
	if strings.TrimSpace(b.DefaultCurrency) == "" {
		return ErrInvalidCurrency
	}
	if strings.TrimSpace(b.Timezone) == "" {
		return ErrInvalidTimezone
	}
	if !b.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidSlug reports whether raw satisfies the slug pattern and length.
func ValidSlug(raw string) bool {
	if len(raw) < minSlugLen || len(raw) > maxSlugLen {
		return false
	}
	return slugPattern.MatchString(raw)
}

// ValidEmail reports whether raw is a bare address with a dotted
// domain. Display-name forms are rejected since the raw string is
// stored as-is.
func ValidEmail(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}

// ContactDraft is one drafted contact row before persistence.
type ContactDraft struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoleLabel string `json:"role_label"`
	Notes     string `json:"notes"`
	IsPrimary bool   `json:"is_primary"`
}

// Validate checks the contact constraints.
func (c ContactDraft) Validate() error {
	if len(strings.TrimSpace(c.Name)) < minNameLen {
		return ErrInvalidContact
	}
	if !ValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// InviteDraft is the optional step-4 invite.
type InviteDraft struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Validate checks the invite constraints.
func (i InviteDraft) Validate() error {
	if !ValidEmail(i.Email) {
		return ErrInvalidEmail
	}
	if !i.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}
