package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/bidrequest-checker/internal/audit"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

var markerLabels = []struct {
	severity types.Severity
	label    string
}{
	{types.SeverityRequired, "required"},
	{types.SeverityRecommended, "recommended"},
	{types.SeverityInteresting, "interesting to have"},
}

// Highlight escapes text for HTML and wraps every placeholder marker in a
// span styled for its severity.
func Highlight(text string) template.HTML {
	if text == "" {
		return ""
	}

	escaped := template.HTMLEscapeString(text)
	for _, m := range markerLabels {
		span := fmt.Sprintf(`<span class="%s-field">%s</span>`, m.severity, m.label)
		escaped = strings.ReplaceAll(escaped, audit.MarkerToken(m.severity), span)
	}
	return template.HTML(escaped) //nolint:gosec // input is escaped above
}
