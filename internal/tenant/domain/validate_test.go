package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var basic BasicInfo
	basic.ApplyDefaults()

	require.Equal(t, DefaultCurrency, basic.DefaultCurrency)
	require.Equal(t, DefaultTimezone, basic.Timezone)
	require.Equal(t, StatusTrial, basic.Status)

	custom := BasicInfo{DefaultCurrency: "USD", Timezone: "UTC", Status: StatusActive}
	custom.ApplyDefaults()
	require.Equal(t, "USD", custom.DefaultCurrency)
	require.Equal(t, "UTC", custom.Timezone)
	require.Equal(t, StatusActive, custom.Status)
}

func TestBasicInfoValidate(t *testing.T) {
	valid := BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"}
	valid.ApplyDefaults()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(*BasicInfo)
		wantErr error
	}{
		{"name too short", func(b *BasicInfo) { b.Name = "x" }, ErrInvalidName},
		{"name too long", func(b *BasicInfo) { b.Name = strings.Repeat("a", 101) }, ErrInvalidName},
		{"slug uppercase", func(b *BasicInfo) { b.Slug = "Bar-Palermo" }, ErrInvalidSlug},
		{"slug too short", func(b *BasicInfo) { b.Slug = "b" }, ErrInvalidSlug},
		{"slug too long", func(b *BasicInfo) { b.Slug = strings.Repeat("a", 51) }, ErrInvalidSlug},
		{"slug spaces", func(b *BasicInfo) { b.Slug = "bar palermo" }, ErrInvalidSlug},
		{"unknown status", func(b *BasicInfo) { b.Status = "paused" }, ErrInvalidStatus},
		{"empty currency", func(b *BasicInfo) { b.DefaultCurrency = " " }, ErrInvalidCurrency},
		{"empty timezone", func(b *BasicInfo) { b.Timezone = "" }, ErrInvalidTimezone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			basic := valid
			tc.mutate(&basic)
			require.ErrorIs(t, basic.Validate(), tc.wantErr)
		})
	}
}

func TestValidSlugBoundaries(t *testing.T) {
	require.True(t, ValidSlug("ab"))
	require.True(t, ValidSlug(strings.Repeat("a", 50)))
	require.True(t, ValidSlug("bar-palermo-2"))
	require.False(t, ValidSlug("a"))
	require.False(t, ValidSlug(strings.Repeat("a", 51)))
	require.False(t, ValidSlug("bar_palermo"))
	require.False(t, ValidSlug(""))
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("ana@example.com"))
	require.True(t, ValidEmail(" ana@example.com "))
	require.False(t, ValidEmail("Ana Perez <ana@example.com>"))
	require.False(t, ValidEmail("ana@example"))
	require.False(t, ValidEmail("ana perez@example.com"))
	require.False(t, ValidEmail("not-an-email"))
	require.False(t, ValidEmail(""))
}

func TestContactDraftValidate(t *testing.T) {
	require.NoError(t, ContactDraft{Name: "Ana", Email: "ana@example.com"}.Validate())
	require.ErrorIs(t, ContactDraft{Name: "A", Email: "ana@example.com"}.Validate(), ErrInvalidContact)
	require.ErrorIs(t, ContactDraft{Name: "Ana", Email: "not-an-email"}.Validate(), ErrInvalidEmail)
	require.ErrorIs(t, ContactDraft{Name: "Ana", Email: "Ana <ana@example.com>"}.Validate(), ErrInvalidEmail)
	require.ErrorIs(t, ContactDraft{Name: "Ana", Email: "ana@example"}.Validate(), ErrInvalidEmail)
}

func TestInviteDraftValidate(t *testing.T) {
	require.NoError(t, InviteDraft{Email: "owner@example.com", Role: UserRoleOwner}.Validate())
	require.ErrorIs(t, InviteDraft{Email: "bad", Role: UserRoleOwner}.Validate(), ErrInvalidEmail)
	require.ErrorIs(t, InviteDraft{Email: "owner@example.com", Role: "boss"}.Validate(), ErrInvalidRole)
}
