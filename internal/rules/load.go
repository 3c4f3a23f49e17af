// Package rules defines the field rule catalog that bid requests are checked against.
package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jonathan/bidrequest-checker/internal/schemas"
	embedded "github.com/jonathan/bidrequest-checker/schemas"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCatalog)
})

// Default returns the built-in catalog. It is decoded once per process.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("built-in rule catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML or JSON file.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, &CatalogError{Message: "catalog path is empty"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Message: fmt.Sprintf("failed to read catalog file %s", path), Cause: err}
	}
	return Parse(data)
}

// LoadOrDefault loads the catalog at path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes catalog content, checks it against the catalog JSON Schema
// and validates it.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := decode(data, &raw); err != nil {
		return nil, &CatalogError{Message: "failed to parse catalog", Cause: err}
	}
	if err := schemas.ValidateValue(embedded.Catalog, raw); err != nil {
		return nil, &CatalogError{Message: "catalog does not match schema", Cause: err}
	}

	var spec Spec
	if err := decode(data, &spec); err != nil {
		return nil, &CatalogError{Message: "failed to decode catalog", Cause: err}
	}
	return New(spec)
}

// decode reads JSON with encoding/json, since tab-indented JSON is not valid
// YAML, and everything else with yaml.v3.
func decode(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, v)
	}
	return yaml.Unmarshal(data, v)
}

// Marshal renders the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c.Spec())
}
