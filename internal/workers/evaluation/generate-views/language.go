// internal/workers/evaluation/generate-views/language.go
package generateviews

import (
	"sort"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

// checkLanguage reports how much of the view is written in the locale's
// script. The result is informational only.
func checkLanguage(content map[string]interface{}, loc string) *models.LanguageCheck {
	script := locale.ExpectedScript(loc)
	ratio := locale.ScriptRatio(flattenText(content), script)
	return &models.LanguageCheck{
		Expected:    script,
		ScriptRatio: ratio,
		Plausible:   ratio >= locale.PlausibleRatio,
	}
}

// flattenText joins every string value of a decoded JSON document. Object
// keys are visited in sorted order so the output is stable.
func flattenText(v interface{}) string {
	var b strings.Builder
	collectText(v, &b)
	return b.String()
}

func collectText(v interface{}, b *strings.Builder) {
	switch t := v.(type) {
	case string:
		b.WriteString(t)
		b.WriteByte('\n')
	case []interface{}:
		for _, item := range t {
			collectText(item, b)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectText(t[k], b)
		}
	}
}
