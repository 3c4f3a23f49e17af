package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/bidrequest-checker/internal/audit"
	"github.com/jonathan/bidrequest-checker/internal/parsing"
	"github.com/jonathan/bidrequest-checker/internal/report"
	"github.com/jonathan/bidrequest-checker/internal/rules"
	"github.com/jonathan/bidrequest-checker/internal/schemas"
	"github.com/jonathan/bidrequest-checker/internal/types"
	embedded "github.com/jonathan/bidrequest-checker/schemas"
)

const (
	// timestampLayout names output folders, e.g. sample_2024-10-03T14-05-09
	timestampLayout = "2006-01-02T15-04-05"
	inputExt        = ".json"
	defaultWorkers  = 4
)

// Options controls where a scan reads and writes and what it writes
type Options struct {
	InputDir  string
	OutputDir string
	Workers   int
	WriteHTML bool
	WriteJSON bool
	Debounce  time.Duration // Watch mode only
}

// Scanner checks bid request files against a catalog and writes their reports.
// It is safe for concurrent use.
type Scanner struct {
	opts    Options
	catalog *rules.Catalog
	logger  *zap.Logger
	now     func() time.Time
	runID   string
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// WithClock sets the time source used for report timestamps and folder names.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithRunID sets the run identifier recorded in every report.
func WithRunID(id string) Option {
	return func(s *Scanner) { s.runID = id }
}

// New creates a Scanner. A nil catalog selects the built-in one.
func New(opts Options, catalog *rules.Catalog, options ...Option) (*Scanner, error) {
	if opts.InputDir == "" {
		return nil, &FileError{Message: "input directory is empty"}
	}
	if opts.OutputDir == "" {
		return nil, &FileError{Message: "output directory is empty"}
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if catalog == nil {
		catalog = rules.Default()
	}

	s := &Scanner{
		opts:    opts,
		catalog: catalog,
		logger:  zap.NewNop(),
		now:     time.Now,
		runID:   uuid.NewString(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// RunID returns the identifier recorded in every report of this scanner.
func (s *Scanner) RunID() string {
	return s.runID
}

// FileResult is the outcome of checking one file
type FileResult struct {
	Path         string
	Source       string // Base name of the input file
	OutputDir    string
	Grade        types.Grade // Empty when the file could not be checked
	Findings     *types.Findings
	AddedFields  []string
	Written      []string // Files written, in order
	ParseFailure *types.ParseFailure
	Err          error
}

// Checked reports whether the file was parsed and graded.
func (r FileResult) Checked() bool {
	return r.Err == nil && r.ParseFailure == nil
}

// Summary collects the results of a directory scan, in file name order
type Summary struct {
	RunID        string
	InputDir     string
	InputCreated bool // The input directory did not exist and was created
	Results      []FileResult
}

// Grades counts checked files per grade.
func (s *Summary) Grades() map[types.Grade]int {
	counts := make(map[types.Grade]int)
	for _, r := range s.Results {
		if r.Checked() {
			counts[r.Grade]++
		}
	}
	return counts
}

// Invalid returns the number of files that were not valid JSON objects.
func (s *Summary) Invalid() int {
	n := 0
	for _, r := range s.Results {
		if r.ParseFailure != nil {
			n++
		}
	}
	return n
}

// Errors returns the number of files that could not be read or written.
func (s *Summary) Errors() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// EnsureDir creates dir when it does not exist and reports whether it did so.
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, &FileError{Path: dir, Message: "not a directory"}
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, &FileError{Path: dir, Message: "failed to stat directory", Cause: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, &FileError{Path: dir, Message: "failed to create directory", Cause: err}
	}
	return true, nil
}

// Discover lists the *.json files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileError{Path: dir, Message: "failed to read directory", Cause: err}
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != inputExt {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// OutputDir returns the folder receiving the reports of one input file.
func OutputDir(base, name string, at time.Time) string {
	return filepath.Join(base, fmt.Sprintf("%s_%s", name, at.UTC().Format(timestampLayout)))
}

// Run checks every file of the input directory, at most Workers at a time.
// A failing file is recorded in the summary and never stops the others.
// When the input directory does not exist it is created and nothing is checked.
func (s *Scanner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: s.runID, InputDir: s.opts.InputDir}

	created, err := EnsureDir(s.opts.InputDir)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("created input directory", zap.String("dir", s.opts.InputDir))
		summary.InputCreated = true
		return summary, nil
	}

	files, err := Discover(s.opts.InputDir)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("discovered bid requests",
		zap.String("run_id", s.runID),
		zap.String("dir", s.opts.InputDir),
		zap.Int("files", len(files)))

	summary.Results = make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			summary.Results[i] = s.ProcessFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return summary, ctx.Err()
}

// ProcessFile checks one file and writes its reports.
func (s *Scanner) ProcessFile(ctx context.Context, path string) FileResult {
	source := filepath.Base(path)
	name := strings.TrimSuffix(source, inputExt)
	result := FileResult{Path: path, Source: source}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	log := s.logger.With(zap.String("run_id", s.runID), zap.String("file", source))

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = &FileError{Path: path, Message: "failed to read bid request", Cause: err}
		log.Error("failed to read bid request", zap.Error(err))
		return result
	}

	checkedAt := s.now()
	result.OutputDir = OutputDir(s.opts.OutputDir, name, checkedAt)

	doc, err := parsing.Parse(data)
	if err != nil {
		failure := parsing.ToFailure(source, err)
		result.ParseFailure = &failure
		log.Warn("bid request is not valid JSON", zap.String("details", failure.Details), zap.Int("line", failure.Line))

		content, renderErr := report.RenderErrorHTML(failure)
		if renderErr != nil {
			result.Err = renderErr
			return result
		}
		result.Err = s.write(&result, "error_report_"+name+".html", content)
		return result
	}

	checked, err := audit.Check(doc, s.catalog)
	if err != nil {
		result.Err = err
		return result
	}
	rep := report.New(s.runID, source, checkedAt, checked)

	result.Grade = checked.Grade
	result.Findings = checked.Findings
	result.AddedFields = checked.Annotation.AddedFields

	if err := s.writeReports(&result, name, rep); err != nil {
		result.Err = err
		log.Error("failed to write reports", zap.Error(err))
		return result
	}

	log.Info("checked bid request",
		zap.String("grade", string(checked.Grade)),
		zap.Int("missing_mandatory", len(checked.Findings.MissingMandatory)),
		zap.Int("missing_recommended", len(checked.Findings.MissingRecommended)),
		zap.Int("missing_interesting", len(checked.Findings.MissingInteresting)),
		zap.Int("improvements", len(checked.Findings.Improvements)),
		zap.Int("added_fields", len(checked.Annotation.AddedFields)),
		zap.String("output_dir", result.OutputDir))

	return result
}

func (s *Scanner) writeReports(result *FileResult, name string, rep *types.Report) error {
	reportName := "report_" + name

	if s.opts.WriteHTML {
		content, err := report.RenderHTML(rep)
		if err != nil {
			return err
		}
		if err := s.write(result, reportName+".html", content); err != nil {
			return err
		}
	}

	if s.opts.WriteJSON {
		content, err := report.RenderJSON(rep)
		if err != nil {
			return err
		}
		if err := schemas.ValidateBytes(embedded.Report, content); err != nil {
			s.logger.Warn("report does not match schema", zap.String("file", result.Source), zap.Error(err))
		}
		if err := s.write(result, reportName+".json", content); err != nil {
			return err
		}
	}

	annotated, err := report.PrettyJSON(rep.AnnotatedRequest)
	if err != nil {
		return &report.RenderError{Message: "failed to encode annotated request", Cause: err}
	}
	return s.write(result, "bidRequestCheck_"+reportName+".json", []byte(annotated))
}

func (s *Scanner) write(result *FileResult, fileName string, content []byte) error {
	if err := os.MkdirAll(result.OutputDir, 0755); err != nil {
		return &FileError{Path: result.OutputDir, Message: "failed to create output directory", Cause: err}
	}
	path := filepath.Join(result.OutputDir, fileName)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return &FileError{Path: path, Message: "failed to write report", Cause: err}
	}
	result.Written = append(result.Written, path)
	return nil
}
