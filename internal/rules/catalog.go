// Package rules defines the field rule catalog that bid requests are checked against.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/bidrequest-checker/internal/document"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

// ImpressionSegment is the leading path segment of rules checked once per impression.
const ImpressionSegment = "imp"

// Tier identifies one of the three rule tables.
type Tier string

const (
	TierMandatory   Tier = "mandatory"
	TierRecommended Tier = "recommended"
	TierInteresting Tier = "interesting"
)

// Tiers lists the rule tables in evaluation order.
var Tiers = []Tier{TierMandatory, TierRecommended, TierInteresting}

// Severity maps a tier to the severity used for findings and placeholders.
func (t Tier) Severity() types.Severity {
	switch t {
	case TierMandatory:
		return types.SeverityRequired
	case TierRecommended:
		return types.SeverityRecommended
	default:
		return types.SeverityInteresting
	}
}

// FieldRule declares a field that should be present in a bid request
type FieldRule struct {
	Path        string `yaml:"path" json:"path" validate:"required"`
	Type        string `yaml:"type" json:"type" validate:"required,oneof=string integer number float boolean array object"`
	Description string `yaml:"description" json:"description" validate:"required"`
}

// ImpressionScoped reports whether the rule applies to each element of imp.
func (r FieldRule) ImpressionScoped() bool {
	head, rest, ok := strings.Cut(r.Path, ".")
	return ok && head == ImpressionSegment && rest != ""
}

// SubPath returns the path relative to one impression, or the full path
// for rules that are not impression scoped.
func (r FieldRule) SubPath() string {
	if !r.ImpressionScoped() {
		return r.Path
	}
	_, rest, _ := strings.Cut(r.Path, ".")
	return rest
}

// Finding builds a finding for the rule under the given resolved name.
func (r FieldRule) Finding(name string) types.Finding {
	return types.Finding{Name: name, Type: r.Type, Description: r.Description}
}

// RegionRule requires consent fields for requests from a closed set of countries
type RegionRule struct {
	Name           string    `yaml:"name" json:"name" validate:"required"`
	CountryPath    string    `yaml:"country_path" json:"country_path" validate:"required"`
	Countries      []string  `yaml:"countries" json:"countries" validate:"required,min=1,unique,dive,iso3166_1_alpha3"`
	CompliantValue float64   `yaml:"compliant_value" json:"compliant_value"`
	Flag           FieldRule `yaml:"flag" json:"flag"`
	Consent        FieldRule `yaml:"consent" json:"consent"`
	Advisory       string    `yaml:"advisory" json:"advisory" validate:"required"`
}

// Spec is the declarative form of a catalog, as read from YAML or JSON
type Spec struct {
	Mandatory   []FieldRule `yaml:"mandatory" json:"mandatory" validate:"required,min=1,dive"`
	Recommended []FieldRule `yaml:"recommended" json:"recommended" validate:"dive"`
	Interesting []FieldRule `yaml:"interesting" json:"interesting" validate:"dive"`
	Region      *RegionRule `yaml:"region,omitempty" json:"region,omitempty"`
}

// Catalog is a validated, immutable set of rules. It is safe for concurrent use.
type Catalog struct {
	tiers     map[Tier][]FieldRule
	region    *RegionRule
	countries map[string]struct{}
}

var validate = validator.New()

// New validates spec and builds a Catalog from a private copy of it.
func New(spec Spec) (*Catalog, error) {
	if err := validate.Struct(spec); err != nil {
		return nil, &CatalogError{Message: describeValidation(err), Cause: err}
	}

	c := &Catalog{
		tiers: map[Tier][]FieldRule{
			TierMandatory:   slices.Clone(spec.Mandatory),
			TierRecommended: slices.Clone(spec.Recommended),
			TierInteresting: slices.Clone(spec.Interesting),
		},
	}

	seen := make(map[string]Tier)
	for _, tier := range Tiers {
		for _, rule := range c.tiers[tier] {
			if err := checkPath(rule.Path); err != nil {
				return nil, &CatalogError{Message: fmt.Sprintf("%s rule %q", tier, rule.Path), Cause: err}
			}
			if prev, dup := seen[rule.Path]; dup {
				return nil, &CatalogError{Message: fmt.Sprintf("path %q declared in both %s and %s", rule.Path, prev, tier)}
			}
			seen[rule.Path] = tier
		}
	}

	if spec.Region != nil {
		region := *spec.Region
		region.Countries = slices.Clone(spec.Region.Countries)
		for _, p := range []string{region.CountryPath, region.Flag.Path, region.Consent.Path} {
			if err := checkPath(p); err != nil {
				return nil, &CatalogError{Message: fmt.Sprintf("region rule %q", p), Cause: err}
			}
		}
		c.region = &region
		c.countries = make(map[string]struct{}, len(region.Countries))
		for _, code := range region.Countries {
			c.countries[code] = struct{}{}
		}
	}

	return c, nil
}

func checkPath(path string) error {
	for _, seg := range document.ParsePath(path) {
		if seg.Key == "" {
			return errors.New("path has an empty segment")
		}
	}
	return nil
}

func describeValidation(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid catalog"
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Rules returns a copy of the rules of one tier, in declaration order.
func (c *Catalog) Rules(tier Tier) []FieldRule {
	return slices.Clone(c.tiers[tier])
}

// Mandatory returns the mandatory rules.
func (c *Catalog) Mandatory() []FieldRule { return c.Rules(TierMandatory) }

// Recommended returns the recommended rules.
func (c *Catalog) Recommended() []FieldRule { return c.Rules(TierRecommended) }

// Interesting returns the interesting rules.
func (c *Catalog) Interesting() []FieldRule { return c.Rules(TierInteresting) }

// Region returns a copy of the region-conditional rule, if the catalog has one.
func (c *Catalog) Region() (RegionRule, bool) {
	if c.region == nil {
		return RegionRule{}, false
	}
	region := *c.region
	region.Countries = slices.Clone(c.region.Countries)
	return region, true
}

// RegionApplies reports whether country is in the region's allow-list.
func (c *Catalog) RegionApplies(country string) bool {
	_, ok := c.countries[country]
	return ok
}

// Spec returns the declarative form of the catalog.
func (c *Catalog) Spec() Spec {
	spec := Spec{
		Mandatory:   c.Mandatory(),
		Recommended: c.Recommended(),
		Interesting: c.Interesting(),
	}
	if region, ok := c.Region(); ok {
		spec.Region = &region
	}
	return spec
}

// Len returns the number of rules across all tiers.
func (c *Catalog) Len() int {
	n := 0
	for _, tier := range Tiers {
		n += len(c.tiers[tier])
	}
	return n
}
