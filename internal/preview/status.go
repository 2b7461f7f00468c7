package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// buildStatus tracks the latest build for the status and resolve endpoints.
// The route table of the last good build stays available while later builds fail.
type buildStatus struct {
	mu        sync.RWMutex
	lastError error
	last      *build.Report
	table     *routes.Table
	builds    int
}

func (bs *buildStatus) record(res *build.Result, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = err
	if res == nil {
		return
	}
	bs.last = res.Report
	if err == nil && res.Table != nil {
		bs.table = res.Table
	}
}

func (bs *buildStatus) routeTable() *routes.Table {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.table
}

// StatusView is the JSON body of the status endpoint.
type StatusView struct {
	Builds       int        `json:"builds"`
	HasGoodBuild bool       `json:"has_good_build"`
	BuildID      string     `json:"build_id,omitempty"`
	Outcome      string     `json:"outcome,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

func (bs *buildStatus) view() StatusView {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	v := StatusView{Builds: bs.builds, HasGoodBuild: bs.table != nil}
	if bs.last != nil {
		v.BuildID = bs.last.BuildID
		v.Outcome = string(bs.last.Outcome)
		v.Summary = bs.last.Summary()
		end := bs.last.End
		v.FinishedAt = &end
	}
	if bs.lastError != nil {
		v.Error = bs.lastError.Error()
	}
	return v
}
