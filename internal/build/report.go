package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/version"
)

// ReportFile is the name of the persisted report inside the output directory.
const ReportFile = "build-report.json"

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a stage failure or warning.
type ReportIssue struct {
	Stage    StageName     `json:"stage"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// Report captures what a build did and how it ended.
type Report struct {
	SchemaVersion int
	BuildID       string
	Version       string
	Revision      string
	Start         time.Time
	End           time.Time
	Outcome       Outcome

	Documents int
	Sidebars  int
	Routes    int

	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]int // per-stage run count, keyed like StageDurations

	Issues     []ReportIssue
	LinkIssues []linkcheck.Issue
	Errors     []error // fatal errors causing build abortion (at most one)
	Warnings   []error
	OutputDir  string
}

// NewReport constructs a report for buildID started now.
func NewReport(buildID string) *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         buildID,
		Version:         version.Version,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]int),
	}
}

// AddIssue appends a structured issue and mirrors it into Errors or Warnings.
func (r *Report) AddIssue(stage StageName, severity IssueSeverity, err error) {
	r.Issues = append(r.Issues, ReportIssue{Stage: stage, Severity: severity, Message: err.Error()})
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// Finish sets the end time of the report.
func (r *Report) Finish() { r.End = time.Now() }

// Duration is the wall time between Start and End.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// RecordStageResult updates counters and emits metrics (if recorder non-nil).
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageCounts[stage]++
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

// DeriveOutcome sets Outcome from the recorded errors and warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("docs=%d sidebars=%d routes=%d broken_links=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Documents, r.Sidebars, r.Routes, len(r.LinkIssues), r.Duration().Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes the report atomically into dir.
func (r *Report) Persist(dir string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	data, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, ReportFile), append(data, '\n'))
}

// SanitizedCopy returns a JSON-friendly copy with errors as strings.
func (r *Report) SanitizedCopy() *ReportSerializable {
	s := &ReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Version:         r.Version,
		Revision:        r.Revision,
		Start:           r.Start,
		End:             r.End,
		DurationMS:      float64(r.Duration()) / float64(time.Millisecond),
		Outcome:         string(r.Outcome),
		Documents:       r.Documents,
		Sidebars:        r.Sidebars,
		Routes:          r.Routes,
		StageDurations:  make(map[string]float64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		Issues:          r.Issues,
		LinkIssues:      r.LinkIssues,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = float64(v) / float64(time.Millisecond)
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	if s.LinkIssues == nil {
		s.LinkIssues = []linkcheck.Issue{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// ReportSerializable mirrors Report with string errors for JSON output.
type ReportSerializable struct {
	SchemaVersion   int                `json:"schema_version"`
	BuildID         string             `json:"build_id"`
	Version         string             `json:"version"`
	Revision        string             `json:"revision,omitempty"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	DurationMS      float64            `json:"duration_ms"`
	Outcome         string             `json:"outcome"`
	Documents       int                `json:"documents"`
	Sidebars        int                `json:"sidebars"`
	Routes          int                `json:"routes"`
	StageDurations  map[string]float64 `json:"stage_durations_ms"`
	StageErrorKinds map[string]string  `json:"stage_error_kinds"`
	Issues          []ReportIssue      `json:"issues"`
	LinkIssues      []linkcheck.Issue  `json:"link_issues"`
	Errors          []string           `json:"errors"`
	Warnings        []string           `json:"warnings"`
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
