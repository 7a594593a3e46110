package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Store   string `default:"fs"`
	Verbose bool

	Clip struct {
		URLs        []string      `arg:"" optional:""`
		Concurrency int           `default:"15"`
		RoundDelay  time.Duration `default:"2s"`
		NoBrowser   bool
	} `cmd:""`
}

func parse(t *testing.T, config string, args ...string) *testCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(yaml.Loader, path), kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("sets flags from top-level keys", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "store: sqlite\nverbose: true\nconcurrency: 4\nround_delay: 500ms\nno-browser: true\n", "clip")

		assert.Equal(t, "sqlite", cli.Store)
		assert.True(t, cli.Verbose)
		assert.Equal(t, 4, cli.Clip.Concurrency)
		assert.Equal(t, 500*time.Millisecond, cli.Clip.RoundDelay)
		assert.True(t, cli.Clip.NoBrowser)
	})

	t.Run("command sections win over top-level keys", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "concurrency: 4\nclip:\n  concurrency: 8\n", "clip")

		assert.Equal(t, 8, cli.Clip.Concurrency)
	})

	t.Run("flags win over the file", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "store: sqlite\n", "--store=gdocs", "clip")

		assert.Equal(t, "gdocs", cli.Store)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "", "clip")

		assert.Equal(t, "fs", cli.Store)
		assert.Equal(t, 15, cli.Clip.Concurrency)
	})
}

func TestLoader_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := yaml.Loader(strings.NewReader("store: [unclosed"))

	assert.Equal(t, clipdoc.EINVALID, clipdoc.ErrorCode(err))
}
