// Package locale resolves the supported output locales and checks whether
// generated text is written in the locale's script.
package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const Default = "en-IN"

// Supported lists the output locales in preference order.
var Supported = []language.Tag{
	language.MustParse("en-IN"),
	language.MustParse("hi-IN"),
	language.MustParse("mr-IN"),
	language.MustParse("gu-IN"),
	language.MustParse("or-IN"),
}

var matcher = language.NewMatcher(Supported)

// scriptTables maps ISO 15924 codes to unicode range tables.
var scriptTables = map[string]*unicode.RangeTable{
	"Latn": unicode.Latin,
	"Deva": unicode.Devanagari,
	"Gujr": unicode.Gujarati,
	"Orya": unicode.Oriya,
}

// PlausibleRatio is the minimum share of letters in the expected script.
const PlausibleRatio = 0.5

// Normalize maps any BCP 47 string onto a supported locale, falling back to
// en-IN for unknown or malformed input.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return Default
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return Supported[idx].String()
}

// IsDefault reports whether loc renders in English without translation.
func IsDefault(loc string) bool {
	return Normalize(loc) == Default
}

// FileSuffix is appended to locale-specific artifact names; empty for en-IN.
func FileSuffix(loc string) string {
	loc = Normalize(loc)
	if loc == Default {
		return ""
	}
	return "_" + loc
}

// LanguageName returns the English name of the locale's language, e.g. "Hindi".
func LanguageName(loc string) string {
	tag := language.MustParse(Normalize(loc))
	base, _ := tag.Base()
	return display.English.Languages().Name(base)
}

// NativeName returns the language name in its own script, e.g. "हिन्दी".
func NativeName(loc string) string {
	tag := language.MustParse(Normalize(loc))
	base, _ := tag.Base()
	return display.Self.Name(base)
}

// ExpectedScript returns the ISO 15924 script code for the locale.
func ExpectedScript(loc string) string {
	tag := language.MustParse(Normalize(loc))
	script, _ := tag.Script()
	return script.String()
}

// ScriptRatio returns the share of letters in text that belong to script.
// Text without letters yields 0.
func ScriptRatio(text, script string) float64 {
	table, ok := scriptTables[script]
	if !ok {
		return 0
	}
	var letters, inScript int
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) {
			continue
		}
		letters++
		if unicode.Is(table, r) {
			inScript++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(inScript) / float64(letters)
}
