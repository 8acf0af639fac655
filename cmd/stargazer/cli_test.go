package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"constellation/internal/domain"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestCmd resets the global flags and returns a command whose output is captured.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	langFlag = ""
	catalogPath = ""
	configPath = defaultConfigPath
	renderOut, renderHint, renderEdges, renderPixels, renderSeed = "", false, "", 96, 1
	demoLevel, demoSeed, demoFrames = "path", 1, ""

	cmd := &cobra.Command{}
	cmd.Flags().String("config", defaultConfigPath, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestParseEdges(t *testing.T) {
	edges, err := parseEdges("1-0, 2-3")
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{A: 0, B: 1}, {A: 2, B: 3}}, edges)

	edges, err = parseEdges("  ")
	require.NoError(t, err)
	assert.Empty(t, edges)

	_, err = parseEdges("0-1,2")
	assert.Error(t, err)
	_, err = parseEdges("3-3")
	assert.Error(t, err)
}

func TestRenderWritesPNG(t *testing.T) {
	cmd, out := newTestCmd(t)
	renderOut = filepath.Join(t.TempDir(), "cassiopeia.png")
	renderEdges = "0-1,1-2,2-3,3-4"

	require.NoError(t, renderFrame(cmd, []string{"cassiopeia"}))
	assert.Contains(t, out.String(), "cassiopeia: 4/4 lines")

	f, err := os.Open(renderOut)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
}

func TestRenderRejectsBadInput(t *testing.T) {
	cmd, _ := newTestCmd(t)
	renderOut = filepath.Join(t.TempDir(), "x.png")

	assert.Error(t, renderFrame(cmd, []string{"andromeda"}))

	renderEdges = "0-9"
	assert.Error(t, renderFrame(cmd, []string{"cassiopeia"}))

	_, err := os.Stat(renderOut)
	assert.True(t, os.IsNotExist(err))
}

func TestMissingConfigFlagIsAnError(t *testing.T) {
	cmd, _ := newTestCmd(t)
	configPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := loadConfig(cmd)
	require.NoError(t, err, "an unset --config falls back to defaults")

	require.NoError(t, cmd.Flags().Set("config", configPath))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}

func TestCatalogTable(t *testing.T) {
	cmd, out := newTestCmd(t)
	langFlag = "es"

	require.NoError(t, listCatalog(cmd, nil))
	s := out.String()
	assert.Contains(t, s, "cassiopeia")
	assert.Contains(t, s, "Casiopea")
	assert.Contains(t, s, "Osa Mayor")
}

const badCatalog = `
constellations:
  - id: twins
    names: {en: Twins}
    stars:
      - {x: 10, y: 10}
      - {x: 15, y: 12}
      - {x: 400, y: 50}
    edges: [[0, 1], [1, 0], [0, 7]]
  - id: twins
    names: {en: Twins, es: Gemelos}
    stars:
      - {x: 10, y: 10}
      - {x: 100, y: 100}
    edges: [[0, 1]]
`

const goodCatalog = `
constellations:
  - id: arrow
    names: {en: Arrow, es: Flecha}
    stars:
      - {x: 50, y: 150}
      - {x: 150, y: 150}
      - {x: 250, y: 150}
    edges: [[0, 1], [1, 2]]
`

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(badCatalog), 0o644))
	require.NoError(t, os.WriteFile(good, []byte(goodCatalog), 0o644))

	cmd, out := newTestCmd(t)
	require.NoError(t, validateCatalog(cmd, []string{good}))
	assert.Contains(t, out.String(), "1 constellations OK")

	err := validateCatalog(cmd, []string{bad})
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"missing es name",
		"outside the canvas",
		"duplicate edge",
		"references a missing star",
		"duplicate id",
		"overlapping pick radii",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestCustomCatalogFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "good.yaml")
	require.NoError(t, os.WriteFile(path, []byte(goodCatalog), 0o644))

	cmd, out := newTestCmd(t)
	catalogPath = path
	require.NoError(t, listCatalog(cmd, nil))
	assert.Contains(t, out.String(), "Arrow")
	assert.NotContains(t, out.String(), "cassiopeia")
}

func TestDemo(t *testing.T) {
	for _, level := range []string{"path", "shuffled", "sloppy"} {
		t.Run(level, func(t *testing.T) {
			cmd, out := newTestCmd(t)
			demoLevel = level
			demoSeed = 7

			require.NoError(t, runDemo(cmd, []string{"big-dipper"}))
			s := out.String()
			assert.Contains(t, s, "You traced Big Dipper!")
			assert.Contains(t, s, "(6/6)")
		})
	}
}

func TestDemoFrames(t *testing.T) {
	cmd, out := newTestCmd(t)
	demoFrames = filepath.Join(t.TempDir(), "frames")

	require.NoError(t, runDemo(cmd, nil))

	files, err := filepath.Glob(filepath.Join(demoFrames, "frame-*.png"))
	require.NoError(t, err)
	clicks := strings.Count(out.String(), "click (")
	assert.Equal(t, clicks, len(files))
	assert.Equal(t, 8, clicks, "cassiopeia has four lines, two clicks each")
}

func TestDemoUnknownLevel(t *testing.T) {
	cmd, _ := newTestCmd(t)
	demoLevel = "psychic"
	assert.Error(t, runDemo(cmd, []string{"cassiopeia"}))
}
