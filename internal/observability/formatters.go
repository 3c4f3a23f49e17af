// Package observability provides logging and formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/bidrequest-checker/internal/rules"
	"github.com/jonathan/bidrequest-checker/internal/scan"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out     io.Writer
	noColor bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithoutColor disables ANSI styling, for plain logs and tests.
func (p *Printer) WithoutColor() *Printer {
	p.noColor = true
	return p
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// Badge renders a grade in its report color.
func (p *Printer) Badge(grade types.Grade) string {
	if p.noColor {
		return "[" + string(grade) + "]"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(grade.Color())).
		Padding(0, 1).
		Render(string(grade))
}

// PrintFindings outputs the grade and the missing fields of one bid request.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFindings(source string, grade types.Grade, findings *types.Findings, added []string) {
	if findings == nil {
		return
	}

	fmt.Fprintf(p.out, "%s %s\n", p.Badge(grade), source)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", source))
	sb.WriteString(fmt.Sprintf("Grade:    %s\n", grade))
	sb.WriteString(fmt.Sprintf("Missing:  %d mandatory, %d recommended, %d interesting\n",
		len(findings.MissingMandatory), len(findings.MissingRecommended), len(findings.MissingInteresting)))
	sb.WriteString(fmt.Sprintf("Added:    %d placeholder fields\n", len(added)))

	writeList(&sb, "Mandatory", findings.MissingMandatory, false)
	writeList(&sb, "Recommended", findings.MissingRecommended, false)
	writeList(&sb, "Interesting", findings.MissingInteresting, false)
	writeList(&sb, "Improvements", findings.Improvements, true)

	p.printBox("BID REQUEST CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, findings []types.Finding, withDescription bool) {
	if len(findings) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	count := min(len(findings), maxItemsToShow)
	for i := 0; i < count; i++ {
		if withDescription {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", findings[i].Name, findings[i].Description))
		} else {
			sb.WriteString(fmt.Sprintf("  • %s\n", findings[i].Name))
		}
	}
	if len(findings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(findings)-maxItemsToShow))
	}
}

// PrintParseFailure outputs why a file could not be checked.
func (p *Printer) PrintParseFailure(failure types.ParseFailure) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", failure.Source))
	sb.WriteString(failure.Message + "\n")
	if failure.SpecificMessage != "" {
		sb.WriteString(failure.SpecificMessage + "\n")
	}
	sb.WriteString(fmt.Sprintf("Details:  %s", failure.Details))

	p.printBox("INVALID BID REQUEST", sb.String())
}

// PrintSummary outputs the grade of every file of a scan.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(summary *scan.Summary) {
	if summary == nil {
		return
	}

	if summary.InputCreated {
		fmt.Fprintf(p.out, "Directory %s not found. Creating the directory...\n", summary.InputDir)
		fmt.Fprintf(p.out, "Please place your bid request files in the %s directory.\n", summary.InputDir)
		return
	}
	if len(summary.Results) == 0 {
		fmt.Fprintf(p.out, "No JSON files found in the %s directory.\n", summary.InputDir)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Files:    %d checked, %d invalid, %d errors\n",
		len(summary.Results)-summary.Invalid()-summary.Errors(), summary.Invalid(), summary.Errors()))

	counts := summary.Grades()
	grades := make([]string, 0, len(counts))
	for _, g := range types.Grades {
		if n := counts[g]; n > 0 {
			grades = append(grades, fmt.Sprintf("%s %d", g, n))
		}
	}
	if len(grades) > 0 {
		sb.WriteString(fmt.Sprintf("Grades:   %s\n", strings.Join(grades, " · ")))
	}
	sb.WriteString("\n")

	for _, r := range summary.Results {
		switch {
		case r.Err != nil:
			sb.WriteString(fmt.Sprintf("✗ %-34s error\n", r.Source))
		case r.ParseFailure != nil:
			sb.WriteString(fmt.Sprintf("✗ %-34s invalid JSON\n", r.Source))
		default:
			sb.WriteString(fmt.Sprintf("• %-34s %-3s +%d fields\n", r.Source, r.Grade, len(r.AddedFields)))
		}
	}

	p.printBox("SCAN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCatalog outputs the rules of a catalog, grouped by tier.
func (p *Printer) PrintCatalog(catalog *rules.Catalog) {
	if catalog == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rules:    %d\n", catalog.Len()))
	for _, tier := range rules.Tiers {
		list := catalog.Rules(tier)
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", strings.ToUpper(string(tier[:1]))+string(tier[1:]), len(list)))
		for _, rule := range list {
			sb.WriteString(fmt.Sprintf("  • %-24s %s\n", rule.Path, rule.Type))
		}
	}

	if region, ok := catalog.Region(); ok {
		countries := append([]string(nil), region.Countries...)
		sort.Strings(countries)
		sb.WriteString(fmt.Sprintf("\nRegion %s: %d countries\n", region.Name, len(countries)))
		sb.WriteString(fmt.Sprintf("  when %s is one of them:\n", region.CountryPath))
		sb.WriteString(fmt.Sprintf("  • %s must be present (%v)\n", region.Flag.Path, region.CompliantValue))
		sb.WriteString(fmt.Sprintf("  • %s must be present\n", region.Consent.Path))
	}

	p.printBox("RULE CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}
