package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@shop.test", true},
		{"ADMIN@shop.test", true},
		{"shop-Admin@x.io", true},
		{"amina@shop.test", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdmin(tt.email))
			// same input, same answer, regardless of history
			assert.Equal(t, IsAdmin(tt.email), IsAdmin(tt.email))
		})
	}
}

func TestNewSession_DerivesAdmin(t *testing.T) {
	s := NewSession(User{ID: "u1", Email: "admin@shop.test", Name: "Amina"})
	assert.True(t, s.IsAdmin)

	s = NewSession(User{ID: "u2", Email: "bob@shop.test", Name: "Bob"})
	assert.False(t, s.IsAdmin)
}

func TestEventType_Valid(t *testing.T) {
	for _, e := range []EventType{EventWedding, EventBirthday, EventBaby, EventCustom} {
		assert.True(t, e.Valid(), e)
	}
	assert.False(t, EventType("funeral").Valid())
	assert.False(t, EventType("").Valid())
}

func TestDefaultDraftName(t *testing.T) {
	assert.Equal(t, "Filtre WEDDING", DefaultDraftName(EventWedding))
	assert.Equal(t, "Filtre BABY", DefaultDraftName(EventBaby))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"fr", LanguageFrench},
		{"fr-FR", LanguageFrench},
		{"ar", LanguageArabic},
		{"ar-MA", LanguageArabic},
		{"en", LanguageFrench},
		{"", LanguageFrench},
		{"not a tag", LanguageFrench},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLanguage(tt.in), tt.in)
	}
}

func TestLanguage_Dir(t *testing.T) {
	assert.Equal(t, "rtl", LanguageArabic.Dir())
	assert.Equal(t, "ltr", LanguageFrench.Dir())
}
