package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand_WritesReports(t *testing.T) {
	in, out := inputDir(t, "complete.json", "sparse.json", "broken.json")

	output, err := execute(t, "check", "--in", in, "--out", out, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, output, "SCAN SUMMARY")
	assert.Contains(t, output, "Files:    2 checked, 1 invalid, 0 errors")
	assert.Contains(t, output, "complete.json")
	assert.Contains(t, output, "invalid JSON")

	files := reportFiles(t, out)
	assert.Contains(t, files, "report_complete.html")
	assert.Contains(t, files, "report_complete.json")
	assert.Contains(t, files, "bidRequestCheck_report_sparse.json")
	assert.Contains(t, files, "error_report_broken.html")
}

func TestCheckCommand_FormatFlag(t *testing.T) {
	in, out := inputDir(t, "complete.json")

	_, err := execute(t, "check", "--in", in, "--out", out, "--format", "json")
	require.NoError(t, err)

	files := reportFiles(t, out)
	assert.Contains(t, files, "report_complete.json")
	assert.NotContains(t, files, "report_complete.html")
}

func TestCheckCommand_ConfigFile(t *testing.T) {
	in, out := inputDir(t, "complete.json")

	_, err := execute(t, "check", "--config", filepath.Join("testdata", "config.yaml"), "--in", in, "--out", out)
	require.NoError(t, err)

	files := reportFiles(t, out)
	assert.NotContains(t, files, "report_complete.html", "config formats apply when no flag overrides them")
	assert.Contains(t, files, "report_complete.json")
}

func TestCheckCommand_CreatesMissingInput(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "incoming")

	output, err := execute(t, "check", "--in", in, "--out", filepath.Join(root, "Logs"))
	require.NoError(t, err)

	assert.DirExists(t, in)
	assert.Contains(t, output, "not found. Creating the directory...")
	assert.Contains(t, output, "Please place your bid request files in the "+in+" directory.")
}

func TestCheckCommand_SameInputAndOutput(t *testing.T) {
	in, _ := inputDir(t)

	_, err := execute(t, "check", "--in", in, "--out", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestCheckCommand_InvalidFormat(t *testing.T) {
	in, out := inputDir(t)

	_, err := execute(t, "check", "--in", in, "--out", out, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formats")
}

func TestAuditCommand(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr bool
		want    []string
	}{
		{
			name: "complete request",
			file: "complete.json",
			want: []string{"[A+] complete.json", "BID REQUEST CHECK", "Added:    0 placeholder fields"},
		},
		{
			name:    "missing mandatory fields",
			file:    "sparse.json",
			wantErr: true,
			want:    []string{"[F] sparse.json", "Mandatory:", "• device"},
		},
		{
			name:    "invalid json",
			file:    "broken.json",
			wantErr: true,
			want:    []string{"INVALID BID REQUEST", "extra comma at line 2"},
		},
		{
			name: "json output",
			file: "complete.json",
			args: []string{"--json"},
			want: []string{`"grade": "A+"`, `"source": "complete.json"`},
		},
		{
			name:    "annotated output",
			file:    "sparse.json",
			args:    []string{"--annotated"},
			wantErr: true,
			want:    []string{`"device": "This field (device) is __required__"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"audit", filepath.Join("testdata", tt.file)}, tt.args...)
			output, err := execute(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestAuditCommand_FailingGrade(t *testing.T) {
	_, err := execute(t, "audit", filepath.Join("testdata", "sparse.json"))
	assert.ErrorIs(t, err, errFailingGrade)
}

func TestAuditCommand_OutputFlagsExclusive(t *testing.T) {
	output, err := execute(t, "audit", filepath.Join("testdata", "complete.json"), "--json", "--annotated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
	assert.NotContains(t, output, `"grade"`)
}

func TestAuditCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "audit", filepath.Join("testdata", "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read bid request")
}

func TestRulesCommand(t *testing.T) {
	output, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, output, "RULE CATALOG")
	assert.Contains(t, output, "Region GDPR")
}

func TestRulesCommand_YAMLRoundTrip(t *testing.T) {
	output, err := execute(t, "rules", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, output, "mandatory:")

	custom := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(custom, []byte(output), 0644))

	_, err = execute(t, "rules", "--rules", custom)
	assert.NoError(t, err)
}

func TestRulesCommand_InvalidCatalog(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("mandatory: []\n"), 0644))

	_, err := execute(t, "rules", "--rules", custom)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rule catalog")
}

func TestValidateCommand(t *testing.T) {
	in, out := inputDir(t, "complete.json")
	_, err := execute(t, "check", "--in", in, "--out", out, "--format", "json")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(out, "*", "report_complete.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	output, err := execute(t, "validate", "--json", matches[0])
	require.NoError(t, err)
	assert.Contains(t, output, "Validation passed")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"grade": "Z"}`), 0644))
	output, err = execute(t, "validate", "--json", bad)
	require.Error(t, err)
	assert.Contains(t, output, "Validation failed")
}

func TestValidateCommand_UnknownSchema(t *testing.T) {
	_, err := execute(t, "validate", "--schema", "nope.schema.json", "--json", filepath.Join("testdata", "complete.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidateCommand_MissingJSONFlag(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}
