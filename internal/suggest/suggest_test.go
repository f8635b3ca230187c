package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"filter-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	out    string
	err    error
	system string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.out, f.err
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestSuggest_ParsesAndValidates(t *testing.T) {
	gen := &fakeGenerator{out: `[
		{"text":" Mabrouk ","style":"festif"},
		{"text":"","style":"vide"},
		{"text":"Pour toujours","style":"chic"},
		{"text":"Oui !","style":"moderne"},
		{"text":"En trop","style":"x"}
	]`}
	p := New(gen, time.Second, nil)

	got := p.Suggest(context.Background(), models.EventWedding, models.LanguageFrench)
	assert.Equal(t, []models.Suggestion{
		{Text: "Mabrouk", Style: "festif"},
		{Text: "Pour toujours", Style: "chic"},
		{Text: "Oui !", Style: "moderne"},
	}, got)

	assert.Contains(t, gen.prompt, `"wedding"`)
	assert.Contains(t, gen.prompt, "Français")
	assert.True(t, strings.HasPrefix(gen.system, "Tu es"))
}

func TestSuggest_ArabicPrompt(t *testing.T) {
	gen := &fakeGenerator{out: `[]`}
	p := New(gen, time.Second, nil)

	got := p.Suggest(context.Background(), models.EventBaby, models.LanguageArabic)
	assert.Empty(t, got, "a valid empty answer stays empty")
	assert.Contains(t, gen.prompt, "Arabe")
	assert.Contains(t, gen.system, "العربية")
}

func TestSuggest_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"no generator", nil},
		{"transport error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"malformed json", &fakeGenerator{out: "Sure! Here are some ideas"}},
		{"object not array", &fakeGenerator{out: `{"text":"x"}`}},
		{"timeout", slowGenerator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.gen, 20*time.Millisecond, nil)
			for _, lang := range []models.Language{models.LanguageFrench, models.LanguageArabic} {
				got := p.Suggest(context.Background(), models.EventWedding, lang)
				require.NotEmpty(t, got)
				assert.Equal(t, Fallback(lang), got)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	assert.Equal(t, []models.Suggestion{{Text: "Joyeux Mariage", Style: "Classique"}}, Fallback(models.LanguageFrench))
	assert.Equal(t, []models.Suggestion{{Text: "زفاف ميمون", Style: "خط عربي"}}, Fallback(models.LanguageArabic))
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
