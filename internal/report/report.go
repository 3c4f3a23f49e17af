package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/bidrequest-checker/internal/audit"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

const (
	reportTemplate      = "report.html.tmpl"
	errorReportTemplate = "error_report.html.tmpl"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var loadTemplates = sync.OnceValues(parseTemplates)

// findingTable is one findings table of the HTML report
type findingTable struct {
	Title    string
	Class    string
	Empty    string
	Findings []types.Finding
}

type htmlPage struct {
	Report        *types.Report
	Tables        []findingTable
	AnnotatedJSON template.HTML
}

// New builds the serializable report for one checked bid request.
func New(runID, source string, checkedAt time.Time, result *audit.Result) *types.Report {
	return &types.Report{
		RunID:            runID,
		Source:           source,
		CheckedAt:        checkedAt.UTC(),
		Grade:            result.Grade,
		Findings:         *result.Findings,
		AddedFields:      result.Annotation.AddedFields,
		AnnotatedRequest: map[string]any(result.Annotation.Document),
	}
}

// RenderHTML renders the grade, the findings tables and the annotated request.
func RenderHTML(r *types.Report) ([]byte, error) {
	if r == nil {
		return nil, &RenderError{Message: "report is nil"}
	}

	pretty, err := PrettyJSON(r.AnnotatedRequest)
	if err != nil {
		return nil, &RenderError{Message: "failed to encode annotated request", Cause: err}
	}

	page := htmlPage{
		Report: r,
		Tables: []findingTable{
			{Title: "Mandatory Fields that are Missing", Class: "mandatory", Empty: "None", Findings: r.Findings.MissingMandatory},
			{Title: "Recommended Fields We Think You Should Include", Class: "recommended", Empty: "All recommended fields are present.", Findings: r.Findings.MissingRecommended},
			{Title: "Interesting Fields That Would be Helpful", Class: "interesting", Empty: "All interesting fields are present.", Findings: r.Findings.MissingInteresting},
		},
		AnnotatedJSON: Highlight(pretty),
	}
	if len(r.Findings.Improvements) > 0 {
		page.Tables = append(page.Tables, findingTable{Title: "Suggested Improvements", Class: "improvements", Findings: r.Findings.Improvements})
	}

	return execute(reportTemplate, page)
}

// RenderErrorHTML renders the report written for a file that could not be parsed.
func RenderErrorHTML(failure types.ParseFailure) ([]byte, error) {
	return execute(errorReportTemplate, failure)
}

// RenderJSON renders the machine-readable report.
func RenderJSON(r *types.Report) ([]byte, error) {
	if r == nil {
		return nil, &RenderError{Message: "report is nil"}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, &RenderError{Message: "failed to marshal report", Cause: err}
	}
	return data, nil
}

// PrettyJSON renders v with four-space indentation and without HTML escaping.
func PrettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DisplayPath shows the first impression index as [] in report tables.
func DisplayPath(name string) string {
	return strings.Replace(name, "[0]", "[]", 1)
}

func execute(name string, data any) ([]byte, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to execute template %s", name),
			Cause:   err,
		}
	}
	return buf.Bytes(), nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"displayPath": DisplayPath,
		"gradeColor":  gradeColor,
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse templates",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func gradeColor(g types.Grade) template.CSS {
	return template.CSS(g.Color())
}
