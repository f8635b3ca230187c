package models

import "golang.org/x/text/language"

type Language string

const (
	LanguageFrench Language = "fr"
	LanguageArabic Language = "ar"
)

// ParseLanguage reduces a BCP 47 tag to a supported editor language.
// Anything unparseable or unsupported falls back to French.
func ParseLanguage(s string) Language {
	tag, err := language.Parse(s)
	if err != nil {
		return LanguageFrench
	}
	base, _ := tag.Base()
	if base.String() == string(LanguageArabic) {
		return LanguageArabic
	}
	return LanguageFrench
}

// Dir returns the text direction for the language, "rtl" or "ltr".
func (l Language) Dir() string {
	if l == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}
