package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/crawl"
	"github.com/fwojciec/clipdoc/goquery"
	"github.com/fwojciec/clipdoc/htmltomarkdown"
	cliphttp "github.com/fwojciec/clipdoc/http"
	"github.com/fwojciec/clipdoc/markdown"
	"github.com/fwojciec/clipdoc/prometheus"
	"github.com/fwojciec/clipdoc/prune"
	"github.com/fwojciec/clipdoc/readability"
	"github.com/fwojciec/clipdoc/rod"
	"github.com/fwojciec/clipdoc/slog"
	"github.com/fwojciec/clipdoc/trafilatura"
	"github.com/fwojciec/clipdoc/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration files read before flags and environment. Missing
	// files are skipped.
	ConfigPaths []string

	// Stdin supplies URLs when none are given as arguments.
	Stdin io.Reader

	// Collaborators for end-to-end testing. Nil values are built from flags.
	Store   clipdoc.DocumentStore
	HTTP    clipdoc.Fetcher
	Browser clipdoc.Fetcher

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"~/.config/clipdoc/config.yaml", "clipdoc.yaml"},
		Stdin:       os.Stdin,
	}
}

// Close releases everything opened by Run, most recent first.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("clipdoc"),
		kong.Description("Extract the main content of web pages into structured documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(yaml.Loader, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'clipdoc --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	logger, logCloser := newLogger(cli.LogFile, cli.Verbose, stderr)
	m.closers = append(m.closers, logCloser)
	deps.Logger = logger

	// Precondition failures end the run here, before any page is fetched.
	store := m.Store
	if store == nil {
		s, closer, err := openStore(ctx, cli)
		if err != nil {
			return failPrecondition(stderr, cli, err)
		}
		m.closers = append(m.closers, closer)
		store = s
	}
	deps.Store = slog.NewLoggingStore(store, logger)

	folder, err := resolveFolder(ctx, deps.Store, cli.Folder, cli.CreateFolder)
	if err != nil {
		return failPrecondition(stderr, cli, err)
	}
	deps.Folder = folder

	if strings.HasPrefix(kongCtx.Command(), "clip") {
		if err := m.wireClip(deps, &cli.Clip); err != nil {
			return failPrecondition(stderr, cli, err)
		}
	}

	return kongCtx.Run(deps)
}

// wireClip builds the extraction pipeline of the clip command.
func (m *Main) wireClip(deps *Dependencies, c *ClipCmd) error {
	ctx := deps.Ctx
	logger := deps.Logger

	var metrics *prometheus.Metrics
	if c.MetricsFile != "" {
		metrics = prometheus.NewMetrics()
		deps.Metrics = metrics
	}
	instrument := func(f clipdoc.Fetcher, backend clipdoc.Backend) clipdoc.Fetcher {
		f = slog.NewLoggingFetcher(f, backend, logger)
		if metrics != nil {
			f = prometheus.NewFetcher(f, backend, metrics)
		}
		return f
	}

	httpFetcher := m.HTTP
	if httpFetcher == nil {
		httpFetcher = cliphttp.NewFetcher(cliphttp.WithTimeout(c.HTTPTimeout))
	}
	m.closers = append(m.closers, httpFetcher)

	browser := m.Browser
	if browser == nil && !c.NoBrowser {
		manager, err := rod.NewBrowserManager(rod.WithBin(c.BrowserBin))
		if err != nil {
			// Without a browser only the plain HTTP strategies run.
			logger.Warn("browser unavailable, continuing without it", "err", err)
			fmt.Fprintln(deps.Stderr, "Hint: install Chrome or Chromium, or pass --no-browser")
		} else {
			browser = rod.NewFetcher(manager)
		}
	}
	if browser != nil {
		m.closers = append(m.closers, browser)
		browser = instrument(browser, clipdoc.BackendBrowser)
	}

	var primary clipdoc.Extractor = trafilatura.NewExtractor()
	if c.Primary == "readability" {
		primary = readability.NewExtractor()
	}
	converter := htmltomarkdown.NewConverter()

	racer := &crawl.Racer{
		HTTP:               instrument(httpFetcher, clipdoc.BackendHTTP),
		Browser:            browser,
		Primary:            primary,
		Multi:              goquery.NewMultiContainerExtractor(),
		Converter:          converter,
		HTTPConcurrency:    c.HTTPConcurrency,
		BrowserConcurrency: c.BrowserConcurrency,
		Logger:             logger,
	}
	if c.RPS > 0 {
		racer.Limiter = crawl.NewDomainLimiter(c.RPS)
	}
	if c.Refine {
		cleaner, err := goquery.NewCleaner()
		if err != nil {
			return err
		}
		cfg := prune.DefaultConfig()
		cfg.Threshold = c.PruneThreshold
		cfg.MinWords = c.PruneMinWords
		minWords := c.MinParagraphWords
		racer.Refiner = &crawl.Refiner{
			Cleaner:     cleaner,
			MainContent: goquery.MainContent,
			Pruner:      prune.NewPruner(cfg),
			Converter:   converter,
			Filter: func(md string) string {
				return prune.FilterShortBlocks(md, minWords)
			},
		}
	}

	cache, err := crawl.NewDocCache(ctx, deps.Store, deps.Folder.ID)
	if err != nil {
		return err
	}

	var r clipdoc.Racer = slog.NewLoggingRacer(racer, logger)
	var publisher clipdoc.Publisher = &crawl.DocPublisher{
		Cache:  cache,
		Store:  deps.Store,
		Parser: markdown.NewParser(),
	}
	if metrics != nil {
		r = prometheus.NewRacer(r, metrics)
		publisher = prometheus.NewPublisher(publisher, metrics)
	}

	deps.Runner = &crawl.Runner{
		Racer:       r,
		Publisher:   publisher,
		Concurrency: c.Concurrency,
		MaxRounds:   c.Rounds,
		RoundDelay:  c.RoundDelay,
		Logger:      logger,
	}
	return nil
}

// failPrecondition reports a setup error with a hint for the common causes.
func failPrecondition(stderr io.Writer, cli *CLI, err error) error {
	switch clipdoc.ErrorCode(err) {
	case clipdoc.ENOTFOUND:
		fmt.Fprintln(stderr, "Hint: pass --create-folder to create the folder")
	case clipdoc.EUNAUTHORIZED:
		fmt.Fprintf(stderr, "Hint: save an OAuth token for the gdocs store at %s\n", cli.Token)
	}
	return fmt.Errorf("error: %s", clipdoc.ErrorMessage(err))
}
