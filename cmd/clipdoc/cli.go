package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/crawl"
	"github.com/fwojciec/clipdoc/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Store  clipdoc.DocumentStore
	Folder *clipdoc.Folder

	// Set for the clip command only.
	Runner  *crawl.Runner
	Metrics *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flags from a YAML file."`

	Store        string `enum:"fs,sqlite,gdocs" default:"fs" env:"CLIPDOC_STORE" help:"Document store (fs, sqlite, gdocs)."`
	Folder       string `default:"Clippings" env:"CLIPDOC_FOLDER" help:"Target folder name."`
	CreateFolder bool   `env:"CLIPDOC_CREATE_FOLDER" help:"Create the target folder when it is missing."`

	Dir         string `type:"path" default:"~/clipdoc" env:"CLIPDOC_DIR" help:"Root directory of the fs store."`
	DB          string `name:"db" type:"path" default:"~/.clipdoc/clipdoc.db" env:"CLIPDOC_DB" help:"Database file of the sqlite store."`
	Credentials string `type:"path" default:"~/.clipdoc/credentials.json" env:"CLIPDOC_CREDENTIALS" help:"OAuth client credentials of the gdocs store."`
	Token       string `type:"path" default:"~/.clipdoc/token.json" env:"CLIPDOC_TOKEN" help:"Saved OAuth token of the gdocs store."`

	LogFile string `type:"path" env:"CLIPDOC_LOG_FILE" help:"Write logs to a rotated file instead of stderr."`
	Verbose bool   `short:"v" env:"CLIPDOC_VERBOSE" help:"Log at debug level."`

	Clip ClipCmd `cmd:"" help:"Extract web pages into documents"`
	Find FindCmd `cmd:"" help:"Find a document by title"`
}

// ClipCmd is the "clip" subcommand.
type ClipCmd struct {
	URLs []string `arg:"" optional:"" name:"url" help:"URLs to clip. Read from stdin, one per line, when omitted."`

	Concurrency        int           `short:"c" default:"15" env:"CLIPDOC_CONCURRENCY" help:"URLs processed at once."`
	HTTPConcurrency    int           `name:"http-concurrency" default:"15" env:"CLIPDOC_HTTP_CONCURRENCY" help:"Concurrent plain HTTP fetches."`
	BrowserConcurrency int           `default:"15" env:"CLIPDOC_BROWSER_CONCURRENCY" help:"Concurrent browser fetches."`
	HTTPTimeout        time.Duration `name:"http-timeout" default:"30s" env:"CLIPDOC_HTTP_TIMEOUT" help:"Plain HTTP request timeout."`
	Rounds             int           `default:"3" env:"CLIPDOC_ROUNDS" help:"Maximum processing rounds."`
	RoundDelay         time.Duration `default:"2s" env:"CLIPDOC_ROUND_DELAY" help:"Pause before each retry round. Negative disables it."`
	RPS                float64       `name:"rps" env:"CLIPDOC_RPS" help:"Plain HTTP requests per second per host. 0 disables limiting."`
	NoBrowser          bool          `env:"CLIPDOC_NO_BROWSER" help:"Skip the headless browser."`
	BrowserBin         string        `type:"path" env:"CLIPDOC_BROWSER_BIN" help:"Chrome binary. Found or downloaded when empty."`

	Primary           string  `enum:"trafilatura,readability" default:"trafilatura" env:"CLIPDOC_PRIMARY" help:"Primary extraction algorithm."`
	Refine            bool    `default:"true" negatable:"" env:"CLIPDOC_REFINE" help:"Clean and prune the winning extraction."`
	PruneThreshold    float64 `default:"0.48" env:"CLIPDOC_PRUNE_THRESHOLD" help:"Score below which content blocks are pruned."`
	PruneMinWords     int     `default:"10" env:"CLIPDOC_PRUNE_MIN_WORDS" help:"Word floor of kept content blocks."`
	MinParagraphWords int     `default:"5" env:"CLIPDOC_MIN_PARAGRAPH_WORDS" help:"Drop shorter paragraphs from refined markdown."`

	MetricsFile string `type:"path" env:"CLIPDOC_METRICS_FILE" help:"Write Prometheus metrics to this file after the run."`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Title string `arg:"" help:"Document title"`
}
