// Package onboarding holds the server-side tenant creation wizard:
// transient drafts, step navigation and the hand-off to the tenant
// sequencer.
package onboarding

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
)

// Step is a wizard position. Navigation is linear: forward gated on
// step-1 validation, backward always allowed and lossless.
type Step string

const (
	StepBasicInfo Step = "basic_info"
	StepContacts  Step = "contacts"
	StepModules   Step = "modules"
	StepInvite    Step = "invite"
)

var stepOrder = []Step{StepBasicInfo, StepContacts, StepModules, StepInvite}

func stepIndex(s Step) int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return 0
}

// ContactEntry is a drafted contact with a client-row token so rows can
// be addressed before persistence.
type ContactEntry struct {
	Token string `json:"token"`
	tenantdomain.ContactDraft
}

// Draft is one operator's in-flight wizard. It is owned exclusively by
// the operator who started it and is discarded on submit or expiry.
type Draft struct {
	ID      string       `json:"id"`
	OwnerID snowflake.ID `json:"-"`

	Step  Step                    `json:"step"`
	Basic tenantdomain.BasicInfo  `json:"basic"`
	// slugTouched pins the slug after the first manual edit; until then
	// it re-derives from the name.
	slugTouched bool

	Contacts []ContactEntry `json:"contacts"`

	// modulesSeeded marks that the core-module default selection has been
	// applied; it never re-applies after the operator toggles.
	modulesSeeded bool
	Selected      map[snowflake.ID]bool `json:"-"`

	Invite *tenantdomain.InviteDraft `json:"invite,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newDraft(ownerID snowflake.ID, ttl time.Duration) *Draft {
	now := time.Now().UTC()
	basic := tenantdomain.BasicInfo{}
	basic.ApplyDefaults()
	return &Draft{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Step:      StepBasicInfo,
		Basic:     basic,
		Selected:  make(map[snowflake.ID]bool),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// BasicInput carries step-1 edits; nil pointers leave fields untouched.
type BasicInput struct {
	Name            *string `json:"name,omitempty"`
	LegalName       *string `json:"legal_name,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	Status          *string `json:"status,omitempty"`
	NotesInternal   *string `json:"notes_internal,omitempty"`
}

func (d *Draft) applyBasic(input BasicInput) {
	if input.Slug != nil {
		// Any manual edit pins the slug, including one that confirms
		// the derived value.
		d.Basic.Slug = strings.TrimSpace(*input.Slug)
		d.slugTouched = true
	}
	if input.Name != nil {
		d.Basic.Name = *input.Name
		if !d.slugTouched {
			d.Basic.Slug = slug.Make(*input.Name)
		}
	}
	if input.LegalName != nil {
		d.Basic.LegalName = *input.LegalName
	}
	if input.DefaultCurrency != nil {
		d.Basic.DefaultCurrency = *input.DefaultCurrency
	}
	if input.Timezone != nil {
		d.Basic.Timezone = *input.Timezone
	}
	if input.Status != nil {
		d.Basic.Status = tenantdomain.Status(*input.Status)
	}
	if input.NotesInternal != nil {
		d.Basic.NotesInternal = *input.NotesInternal
	}
	d.touch()
}

// advance moves forward one step. Leaving step 1 requires the basic
// info to validate; later steps are optional and advance freely.
func (d *Draft) advance() error {
	if d.Step == StepBasicInfo {
		if err := d.Basic.Validate(); err != nil {
			return err
		}
	}
	idx := stepIndex(d.Step)
	if idx < len(stepOrder)-1 {
		d.Step = stepOrder[idx+1]
	}
	d.touch()
	return nil
}

// back moves one step backward without clearing anything.
func (d *Draft) back() {
	idx := stepIndex(d.Step)
	if idx > 0 {
		d.Step = stepOrder[idx-1]
	}
	d.touch()
}

func (d *Draft) addContact(draft tenantdomain.ContactDraft) (ContactEntry, error) {
	if err := draft.Validate(); err != nil {
		return ContactEntry{}, err
	}
	entry := ContactEntry{
		Token:        uuid.NewString(),
		ContactDraft: draft,
	}
	if entry.IsPrimary {
		for i := range d.Contacts {
			d.Contacts[i].IsPrimary = false
		}
	}
	d.Contacts = append(d.Contacts, entry)
	d.touch()
	return entry, nil
}

func (d *Draft) removeContact(token string) error {
	for i, entry := range d.Contacts {
		if entry.Token == token {
			// Primary status is never re-assigned on removal.
			d.Contacts = append(d.Contacts[:i], d.Contacts[i+1:]...)
			d.touch()
			return nil
		}
	}
	return ErrContactNotFound
}

// setPrimary marks one contact primary and demotes all others in the
// same operation.
func (d *Draft) setPrimary(token string) error {
	found := false
	for i := range d.Contacts {
		if d.Contacts[i].Token == token {
			d.Contacts[i].IsPrimary = true
			found = true
		} else {
			d.Contacts[i].IsPrimary = false
		}
	}
	if !found {
		return ErrContactNotFound
	}
	d.touch()
	return nil
}

// seedModules applies the core-module default exactly once. Core is a
// suggested default, not an enforced minimum.
func (d *Draft) seedModules(registry []*registrydomain.AppModule) {
	if d.modulesSeeded {
		return
	}
	for _, module := range registry {
		if module.IsCore {
			d.Selected[module.ID] = true
		}
	}
	d.modulesSeeded = true
	d.touch()
}

func (d *Draft) toggleModule(id snowflake.ID) {
	if d.Selected[id] {
		delete(d.Selected, id)
	} else {
		d.Selected[id] = true
	}
	d.touch()
}

// setInvite toggles between skip (nil invite) and provide. Disabling
// discards any entered email and role.
func (d *Draft) setInvite(enabled bool) {
	if !enabled {
		d.Invite = nil
	} else if d.Invite == nil {
		d.Invite = &tenantdomain.InviteDraft{Role: tenantdomain.UserRoleOwner}
	}
	d.touch()
}

func (d *Draft) updateInvite(email *string, role *string) error {
	if d.Invite == nil {
		return ErrInviteSkipped
	}
	if email != nil {
		d.Invite.Email = strings.TrimSpace(*email)
	}
	if role != nil {
		parsed := tenantdomain.UserRole(*role)
		if !parsed.IsValid() {
			return tenantdomain.ErrInvalidRole
		}
		d.Invite.Role = parsed
	}
	d.touch()
	return nil
}

// toRequest materializes the draft for the submission sequencer.
func (d *Draft) toRequest() tenantdomain.OnboardRequest {
	contacts := make([]tenantdomain.ContactDraft, 0, len(d.Contacts))
	for _, entry := range d.Contacts {
		contacts = append(contacts, entry.ContactDraft)
	}

	moduleIDs := make([]snowflake.ID, 0, len(d.Selected))
	for id := range d.Selected {
		moduleIDs = append(moduleIDs, id)
	}

	var invite *tenantdomain.InviteDraft
	if d.Invite != nil && strings.TrimSpace(d.Invite.Email) != "" {
		copied := *d.Invite
		invite = &copied
	}

	return tenantdomain.OnboardRequest{
		Basic:     d.Basic,
		Contacts:  contacts,
		ModuleIDs: moduleIDs,
		Invite:    invite,
	}
}

// SelectedModuleIDs returns the current selection for rendering.
func (d *Draft) SelectedModuleIDs() []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(d.Selected))
	for id := range d.Selected {
		ids = append(ids, id)
	}
	return ids
}

// clone returns a snapshot safe to read after the store lock is
// released. The live draft never leaves the store.
func (d *Draft) clone() *Draft {
	out := *d
	out.Contacts = append([]ContactEntry(nil), d.Contacts...)
	out.Selected = make(map[snowflake.ID]bool, len(d.Selected))
	for id, on := range d.Selected {
		out.Selected[id] = on
	}
	if d.Invite != nil {
		invite := *d.Invite
		out.Invite = &invite
	}
	return &out
}

func (d *Draft) expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}
