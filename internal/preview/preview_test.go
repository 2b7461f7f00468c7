package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
)

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestWatchSet_Relevant(t *testing.T) {
	ws := newWatchSet("/site/docs", "/site/sidebars.yaml", "/site/docnav.yaml")

	assert.True(t, ws.relevant("/site/docs/intro.md"))
	assert.True(t, ws.relevant("/site/docs/guides/install.md"))
	assert.True(t, ws.relevant("/site/sidebars.yaml"))
	assert.True(t, ws.relevant("/site/docnav.yaml"))
	assert.False(t, ws.relevant("/site/build/routes.json"))
	assert.False(t, ws.relevant("/site/docs-old/intro.md"))
	assert.False(t, ws.relevant("/site/docs/.intro.md.swp"))
}

func TestHandleFileEvent_WarnsWhenNewDirectoryCannotBeWatched(t *testing.T) {
	docs := t.TempDir()
	sub := filepath.Join(docs, "guides")
	require.NoError(t, os.Mkdir(sub, 0o750))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	triggered := false
	handleFileEvent(w, newWatchSet(docs), fsnotify.Event{Name: sub, Op: fsnotify.Create}, func() { triggered = true }, logger)

	assert.True(t, triggered)
	assert.Contains(t, logs.String(), "New directory not watched")
	assert.Contains(t, logs.String(), sub)
}

func TestAddDirsRecursive_MissingRoot(t *testing.T) {
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	err = addDirsRecursive(w, filepath.Join(t.TempDir(), "missing"), discardLogger())
	require.Error(t, err)
}

func TestDebouncer_Coalesces(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	defer d.stop()

	for range 5 {
		d.trigger()
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_StopCancelsPendingFire(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	d.trigger()
	d.stop()
	d.trigger()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRebuildWorker_SingleFlight(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var runs, concurrent, maxConcurrent atomic.Int32
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	w := newRebuildWorker(func(ctx context.Context) {
		n := concurrent.Add(1)
		if n > maxConcurrent.Load() {
			maxConcurrent.Store(n)
		}
		runs.Add(1)
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		concurrent.Add(-1)
	})

	ctx, cancel := context.WithCancel(t.Context())
	w.start(ctx)

	w.request()
	<-started
	// Requests during a running rebuild collapse into one follow-up.
	w.request()
	w.request()
	w.request()
	close(release)

	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, int32(1), maxConcurrent.Load())

	cancel()
	w.wait()
}

func TestRouter(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "routes.json"), []byte("[]\n"), 0o600))
	status := &buildStatus{}
	metricsHit := false
	router := newRouter(routerConfig{
		outputDir:   out,
		status:      status,
		metricsPath: "/metrics",
		metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			metricsHit = true
			w.WriteHeader(http.StatusOK)
		}),
		logger: discardLogger(),
	})
	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/_resolve?path=/docs/intro").Code)

	s := newTestSite(t)
	res, err := build.NewService(build.WithLogger(discardLogger())).Run(t.Context(), build.Request{Config: s.cfg, DryRun: true})
	require.NoError(t, err)
	status.record(res, nil)

	rec := get("/_resolve?path=/docs/intro/")
	require.Equal(t, http.StatusOK, rec.Code)
	var view ResolveView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "/docs/intro", view.Path)
	assert.False(t, view.NotFound)
	require.Len(t, view.Matches, 4)
	assert.Equal(t, "intro", view.Matches[3].DocID)

	rec = get("/_resolve?path=/nowhere")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.NotFound)

	assert.Equal(t, http.StatusBadRequest, get("/_resolve").Code)

	rec = get("/_status")
	var sv StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sv))
	assert.Equal(t, 1, sv.Builds)
	assert.True(t, sv.HasGoodBuild)
	assert.Equal(t, "success", sv.Outcome)

	assert.Equal(t, http.StatusOK, get("/routes.json").Code)
	get("/metrics")
	assert.True(t, metricsHit)
}

func TestBuildStatus_KeepsLastGoodTable(t *testing.T) {
	s := newTestSite(t)
	res, err := build.NewService(build.WithLogger(discardLogger())).Run(t.Context(), build.Request{Config: s.cfg, DryRun: true})
	require.NoError(t, err)

	status := &buildStatus{}
	status.record(res, nil)
	failed := &build.Result{Report: build.NewReport("failed")}
	status.record(failed, assert.AnError)

	assert.Same(t, res.Table, status.routeTable())
	v := status.view()
	assert.Equal(t, 2, v.Builds)
	assert.NotEmpty(t, v.Error)
	assert.True(t, v.HasGoodBuild)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestSite(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Addr:       "127.0.0.1:0",
			ConfigPath: s.configPath,
			Logger:     discardLogger(),
			Debounce:   20 * time.Millisecond,
			Ready:      func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("preview exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview did not start")
	}

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 2 * time.Second}
	status := func() StatusView {
		resp, err := client.Get("http://" + addr + "/_status")
		if err != nil {
			return StatusView{}
		}
		defer func() { _ = resp.Body.Close() }()
		var v StatusView
		_ = json.NewDecoder(resp.Body).Decode(&v)
		return v
	}
	require.Equal(t, 1, status().Builds)

	require.NoError(t, os.WriteFile(filepath.Join(s.root, "docs", "faq.md"), []byte("# FAQ\n"), 0o600))
	require.Eventually(t, func() bool { return status().Builds >= 2 }, 5*time.Second, 20*time.Millisecond)

	resp, err := client.Get("http://" + addr + "/_resolve?path=/docs/faq")
	require.NoError(t, err)
	var view ResolveView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	_ = resp.Body.Close()
	assert.False(t, view.NotFound)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview did not stop")
	}
}

type testSite struct {
	root       string
	configPath string
	cfg        *config.Config
}

func newTestSite(t *testing.T) testSite {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"docnav.yaml":   "title: Test Site\n",
		"sidebars.yaml": "tutorialSidebar:\n  - intro\n",
		"docs/intro.md": "# Introduction\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	configPath := filepath.Join(root, "docnav.yaml")
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	return testSite{root: root, configPath: configPath, cfg: cfg}
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
