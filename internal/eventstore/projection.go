package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Build statuses in BuildSummary.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// BuildSummary is the read model of one build.
type BuildSummary struct {
	BuildID      string                  `json:"build_id"`
	Status       string                  `json:"status"`
	Outcome      string                  `json:"outcome,omitempty"`
	Revision     string                  `json:"revision,omitempty"`
	Trigger      string                  `json:"trigger,omitempty"`
	StartedAt    time.Time               `json:"started_at"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
	DurationMS   float64                 `json:"duration_ms,omitempty"`
	Documents    int                     `json:"documents"`
	Routes       int                     `json:"routes"`
	BrokenLinks  int                     `json:"broken_links"`
	Stages       []StageCompletedPayload `json:"stages,omitempty"`
	ErrorStage   string                  `json:"error_stage,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}

// BuildHistoryProjection rebuilds build summaries from the event log.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	maxSize int
}

// NewBuildHistoryProjection creates a projection over store keeping at most
// maxHistorySize builds (100 when <= 0).
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds = make(map[string]*BuildSummary)
	for _, ev := range events {
		p.applyLocked(ev)
	}
	return nil
}

// Apply folds a single event into the projection.
func (p *BuildHistoryProjection) Apply(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(ev)
}

func (p *BuildHistoryProjection) applyLocked(ev Event) {
	id := ev.BuildID()
	if id == "" {
		return
	}
	s, ok := p.builds[id]
	if !ok {
		s = &BuildSummary{BuildID: id, Status: StatusRunning, StartedAt: ev.Timestamp()}
		p.builds[id] = s
	}

	switch ev.Type() {
	case TypeBuildStarted:
		if pl, ok := decodePayload[BuildStartedPayload](ev); ok {
			s.Revision = pl.Revision
			s.Trigger = pl.Trigger
		}
		s.StartedAt = ev.Timestamp()
	case TypeStageCompleted:
		if pl, ok := decodePayload[StageCompletedPayload](ev); ok {
			s.Stages = append(s.Stages, pl)
		}
	case TypeBuildCompleted:
		if pl, ok := decodePayload[BuildCompletedPayload](ev); ok {
			s.Outcome = pl.Outcome
			if pl.Revision != "" {
				s.Revision = pl.Revision
			}
			s.Documents = pl.Documents
			s.Routes = pl.Routes
			s.BrokenLinks = pl.BrokenLinks
			s.DurationMS = pl.DurationMS
		}
		s.Status = StatusCompleted
		done := ev.Timestamp()
		s.CompletedAt = &done
	case TypeBuildFailed:
		if pl, ok := decodePayload[BuildFailedPayload](ev); ok {
			s.ErrorStage = pl.Stage
			s.ErrorMessage = pl.Error
			s.DurationMS = pl.DurationMS
			if pl.Canceled {
				s.Status = StatusCanceled
			} else {
				s.Status = StatusFailed
			}
		} else {
			s.Status = StatusFailed
		}
		s.Outcome = s.Status
		done := ev.Timestamp()
		s.CompletedAt = &done
	}
}

// History returns summaries newest first, bounded by the projection size.
func (p *BuildHistoryProjection) History() []*BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*BuildSummary, 0, len(p.builds))
	for _, s := range p.builds {
		c := *s
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].BuildID > out[j].BuildID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > p.maxSize {
		out = out[:p.maxSize]
	}
	return out
}

// Get returns the summary of one build.
func (p *BuildHistoryProjection) Get(buildID string) (*BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.builds[buildID]
	if !ok {
		return nil, false
	}
	c := *s
	return &c, true
}
