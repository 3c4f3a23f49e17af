// Package schemas embeds the JSON Schemas for the rule catalog and the check report.
package schemas

import "embed"

// Schema file names.
const (
	Catalog = "catalog.schema.json"
	Report  = "report.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	return []string{Catalog, Report}
}
