// Package audit checks bid requests against a rule catalog, annotates missing fields and grades the result.
package audit

import (
	"encoding/json"
	"strconv"

	"github.com/jonathan/bidrequest-checker/internal/document"
	"github.com/jonathan/bidrequest-checker/internal/rules"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

// Evaluate classifies doc against catalog. Findings are ordered as the rules
// are declared; per-impression findings come first, by ascending impression
// index, followed by the document-level findings of the same tier.
func Evaluate(doc document.Document, catalog *rules.Catalog) (*types.Findings, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	findings := types.NewFindings()

	for _, rule := range catalog.Mandatory() {
		if !document.Has(doc, rule.Path) {
			findings.MissingMandatory = append(findings.MissingMandatory, rule.Finding(rule.Path))
		}
	}

	recommended := catalog.Recommended()
	interesting := catalog.Interesting()

	if impressions, ok := doc[rules.ImpressionSegment].([]any); ok {
		for i, imp := range impressions {
			element, _ := imp.(map[string]any)
			findings.MissingRecommended = appendImpression(findings.MissingRecommended, recommended, element, i)
			findings.MissingInteresting = appendImpression(findings.MissingInteresting, interesting, element, i)
		}
	}

	findings.MissingRecommended = appendDocument(findings.MissingRecommended, recommended, doc)
	findings.MissingInteresting = appendDocument(findings.MissingInteresting, interesting, doc)

	checkRegion(doc, catalog, findings)

	return findings, nil
}

// appendImpression checks impression-scoped rules against one element of imp.
// A nil element (not an object) is missing every sub-path.
func appendImpression(dst []types.Finding, tier []rules.FieldRule, element map[string]any, index int) []types.Finding {
	prefix := document.FormatIndex(rules.ImpressionSegment, index)
	for _, rule := range tier {
		if !rule.ImpressionScoped() {
			continue
		}
		sub := rule.SubPath()
		if element != nil && document.Has(element, sub) {
			continue
		}
		dst = append(dst, rule.Finding(prefix+"."+sub))
	}
	return dst
}

func appendDocument(dst []types.Finding, tier []rules.FieldRule, doc document.Document) []types.Finding {
	for _, rule := range tier {
		if rule.ImpressionScoped() || document.Has(doc, rule.Path) {
			continue
		}
		dst = append(dst, rule.Finding(rule.Path))
	}
	return dst
}

// checkRegion escalates the consent fields to mandatory for requests from the
// catalog's region, and records an advisory when the flag holds any value other
// than the compliant one.
func checkRegion(doc document.Document, catalog *rules.Catalog, findings *types.Findings) {
	region, ok := catalog.Region()
	if !ok {
		return
	}
	country, ok := document.Get(doc, region.CountryPath)
	if !ok {
		return
	}
	code, ok := country.(string)
	if !ok || !catalog.RegionApplies(code) {
		return
	}

	if flag, present := document.Get(doc, region.Flag.Path); !present {
		findings.MissingMandatory = append(findings.MissingMandatory, region.Flag.Finding(region.Flag.Path))
	} else if !numberEquals(flag, region.CompliantValue) {
		findings.Improvements = append(findings.Improvements, types.Finding{
			Name:        region.Flag.Path,
			Type:        region.Flag.Type,
			Description: region.Advisory,
		})
	}

	if !document.Has(doc, region.Consent.Path) {
		findings.MissingMandatory = append(findings.MissingMandatory, region.Consent.Finding(region.Consent.Path))
	}
}

// numberEquals reports whether v is a JSON number equal to want. Strings and
// booleans never match, even when they spell the number.
func numberEquals(v any, want float64) bool {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return err == nil && f == want
	case float64:
		return n == want
	case float32:
		return float64(n) == want
	case int:
		return float64(n) == want
	case int64:
		return float64(n) == want
	default:
		return false
	}
}
