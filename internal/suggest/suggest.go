// Package suggest produces short text ideas for a filter from a generative
// model. It never fails: any problem yields a fixed per-language fallback.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"filter-studio/internal/models"

	"go.uber.org/zap"
)

// MaxSuggestions caps how many items reach the caller.
const MaxSuggestions = 3

const DefaultTimeout = 15 * time.Second

// Generator runs one prompt against a model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

type Provider struct {
	gen     Generator
	timeout time.Duration
	log     *zap.Logger
}

// New returns a Provider. A nil gen is allowed and means every call gets
// the fallback, which is how a missing API key is handled.
func New(gen Generator, timeout time.Duration, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Provider{gen: gen, timeout: timeout, log: log}
}

// Suggest asks the model for up to MaxSuggestions texts for category in
// lang. The result may be empty when the model returns nothing usable, but
// on any failure it is the fallback.
func (p *Provider) Suggest(ctx context.Context, category models.EventType, lang models.Language) []models.Suggestion {
	if p.gen == nil {
		return Fallback(lang)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.gen.Generate(ctx, systemPrompt(lang), userPrompt(category, lang))
	if err != nil {
		p.log.Warn("suggestion request failed", zap.String("lang", string(lang)), zap.Error(err))
		return Fallback(lang)
	}

	out, err := parse(raw)
	if err != nil {
		p.log.Warn("suggestion response unusable", zap.String("lang", string(lang)), zap.Error(err))
		return Fallback(lang)
	}
	return out
}

// Fallback is the fixed one-item answer for lang.
func Fallback(lang models.Language) []models.Suggestion {
	if lang == models.LanguageArabic {
		return []models.Suggestion{{Text: "زفاف ميمون", Style: "خط عربي"}}
	}
	return []models.Suggestion{{Text: "Joyeux Mariage", Style: "Classique"}}
}

func parse(raw string) ([]models.Suggestion, error) {
	var items []models.Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &items); err != nil {
		return nil, err
	}

	out := make([]models.Suggestion, 0, MaxSuggestions)
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		out = append(out, models.Suggestion{Text: text, Style: strings.TrimSpace(it.Style)})
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out, nil
}

func systemPrompt(lang models.Language) string {
	if lang == models.LanguageArabic {
		return "أنت خبير في تصميم الفلاتر. مهمتك هي إنشاء 3 اقتراحات نصوص قصيرة باللغة العربية حصراً. يمنع استخدام أي أحرف لاتينية. الأسلوب: أنيق، احتفالي."
	}
	return "Tu es un expert en design de filtres. Génère 3 suggestions de textes courts en FRANÇAIS. Style : chic, moderne."
}

func userPrompt(category models.EventType, lang models.Language) string {
	name := "Français"
	if lang == models.LanguageArabic {
		name = "Arabe"
	}
	return fmt.Sprintf("Génère 3 variations de textes pour un filtre de type %q en langue %s. Maximum 15 caractères par suggestion.", category, name)
}
