package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/build"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func writeSite(t *testing.T, extraConfig string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"docnav.yaml":            "title: Test Site\n" + extraConfig,
		"sidebars.yaml":          "tutorialSidebar:\n  - intro\n  - type: category\n    label: Guides\n    items:\n      - guides/install\n",
		"docs/intro.md":          "# Introduction\n\nSee [install](guides/install.md).\n",
		"docs/guides/install.md": "# Install\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return filepath.Join(root, "docnav.yaml")
}

func testGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return NewGlobal(slog.New(slog.DiscardHandler), &out), &out
}

func TestBuildCmd(t *testing.T) {
	cfgPath := writeSite(t, "")
	g, out := testGlobal()

	require.NoError(t, (&BuildCmd{}).Run(t.Context(), g, &CLI{Config: cfgPath}))
	assert.Contains(t, out.String(), "outcome=success")

	outDir := filepath.Join(filepath.Dir(cfgPath), "build")
	for _, name := range []string{build.RoutesFile, build.SidebarsFile, build.SiteFile, build.ReportFile} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestBuildCmd_OutputOverride(t *testing.T) {
	cfgPath := writeSite(t, "")
	g, _ := testGlobal()
	outDir := filepath.Join(t.TempDir(), "site")

	require.NoError(t, (&BuildCmd{Output: outDir}).Run(t.Context(), g, &CLI{Config: cfgPath}))
	assert.FileExists(t, filepath.Join(outDir, build.RoutesFile))
}

func TestValidateCmd_WritesNothing(t *testing.T) {
	cfgPath := writeSite(t, "")
	g, out := testGlobal()

	require.NoError(t, (&ValidateCmd{}).Run(t.Context(), g, &CLI{Config: cfgPath}))
	assert.Contains(t, out.String(), "Valid:")
	assert.NoDirExists(t, filepath.Join(filepath.Dir(cfgPath), "build"))
}

func TestValidateCmd_DanglingReference(t *testing.T) {
	cfgPath := writeSite(t, "")
	sidebars := filepath.Join(filepath.Dir(cfgPath), "sidebars.yaml")
	require.NoError(t, os.WriteFile(sidebars, []byte("tutorialSidebar:\n  - intro\n  - missing\n"), 0o600))
	g, _ := testGlobal()

	err := (&ValidateCmd{}).Run(t.Context(), g, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, g.Logger).ExitCodeFor(err))
}

func TestRoutesCmd(t *testing.T) {
	cfgPath := writeSite(t, "")

	g, out := testGlobal()
	require.NoError(t, (&RoutesCmd{JSON: true}).Run(t.Context(), g, &CLI{Config: cfgPath}))
	var manifest []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &manifest))
	require.NotEmpty(t, manifest)
	assert.Equal(t, "/docs", manifest[0]["path"])

	g, out = testGlobal()
	require.NoError(t, (&RoutesCmd{}).Run(t.Context(), g, &CLI{Config: cfgPath}))
	assert.Contains(t, out.String(), "/docs/guides/install")
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	g, out := testGlobal()
	cmd := &InitCmd{Output: dir}

	require.NoError(t, cmd.Run(g, &CLI{}))
	assert.FileExists(t, filepath.Join(dir, "docnav.yaml"))
	assert.Contains(t, out.String(), "initialized successfully")

	err := cmd.Run(g, &CLI{})
	require.Error(t, err)
	assert.Equal(t, 2, ferrors.NewCLIErrorAdapter(false, g.Logger).ExitCodeFor(err))

	cmd.Force = true
	require.NoError(t, cmd.Run(g, &CLI{}))
}

func TestHistoryCmd(t *testing.T) {
	cfgPath := writeSite(t, "history:\n  path: history.db\n")
	g, _ := testGlobal()
	cli := &CLI{Config: cfgPath}

	require.NoError(t, (&BuildCmd{}).Run(t.Context(), g, cli))
	require.NoError(t, (&ValidateCmd{}).Run(t.Context(), g, cli))

	g, out := testGlobal()
	require.NoError(t, (&HistoryCmd{Limit: 20}).Run(t.Context(), g, cli))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "BUILD")

	g, out = testGlobal()
	require.NoError(t, (&HistoryCmd{Limit: 1, JSON: true}).Run(t.Context(), g, cli))
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "completed", summaries[0]["status"])
}

func TestHistoryCmd_Disabled(t *testing.T) {
	cfgPath := writeSite(t, "")
	g, _ := testGlobal()

	err := (&HistoryCmd{}).Run(t.Context(), g, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, g.Logger).ExitCodeFor(err))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("DOCNAV_LOG_LEVEL", "warn")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv("DOCNAV_LOG_LEVEL", "loud")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
}

func TestCLIParse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docnav"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"-c", "site/docnav.yaml", "routes", "--json"})
	require.NoError(t, err)
	assert.Equal(t, "routes", kctx.Command())
	assert.True(t, cli.Routes.JSON)
	assert.True(t, filepath.IsAbs(cli.Config))

	kctx, err = parser.Parse([]string{"preview"})
	require.NoError(t, err)
	assert.Equal(t, "preview", kctx.Command())
	assert.Equal(t, "127.0.0.1:1316", cli.Preview.Addr)
}
