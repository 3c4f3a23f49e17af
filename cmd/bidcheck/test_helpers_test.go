package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process with fresh flag values and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{"IN", "OUT", "RULES", "WORKERS", "FORMATS", "VERBOSE"} {
		t.Setenv("BIDCHECK_"+name, "")
	}
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// inputDir copies the named testdata files into a fresh input directory.
func inputDir(t *testing.T, names ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "bidRequests")
	require.NoError(t, os.Mkdir(in, 0755))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(in, name), content, 0644))
	}
	return in, filepath.Join(root, "Logs")
}

// reportFiles lists the files written under out, relative to their run folder.
func reportFiles(t *testing.T, out string) []string {
	t.Helper()
	var files []string
	folders, err := os.ReadDir(out)
	require.NoError(t, err)
	for _, folder := range folders {
		entries, err := os.ReadDir(filepath.Join(out, folder.Name()))
		require.NoError(t, err)
		for _, e := range entries {
			files = append(files, e.Name())
		}
	}
	return files
}
