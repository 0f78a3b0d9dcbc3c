package enums

import (
	"fmt"
	"strings"
)

// Language is the two-value display language selector.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

var validLanguages = []Language{
	LanguageEnglish,
	LanguageArabic,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the language is supported.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsRTL reports whether documents in this language are laid out right-to-left.
func (l Language) IsRTL() bool {
	return l == LanguageArabic
}

// ParseLanguage converts a raw string into a Language.
func ParseLanguage(value string) (Language, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validLanguages {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}
