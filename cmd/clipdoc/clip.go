package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/crawl"
)

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if len(urls) == 0 {
		var err error
		if urls, err = readURLs(deps.Stdin); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", clipdoc.ErrorMessage(err))
			return err
		}
	}
	if len(urls) == 0 {
		err := clipdoc.Errorf(clipdoc.EINVALID, "no URLs given")
		fmt.Fprintf(deps.Stderr, "error: %s\n", clipdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Clipping %d URLs into %q\n", len(urls), deps.Folder.Name)

	progress := func(p clipdoc.Progress) {
		fmt.Fprintln(deps.Stderr, crawl.FormatProgress(p))
	}
	report, runErr := deps.Runner.Run(deps.Ctx, urls, progress)

	for _, o := range report.Outcomes {
		if o.OK() {
			fmt.Fprintln(deps.Stdout, crawl.FormatOutcome(o))
		} else {
			fmt.Fprintln(deps.Stderr, crawl.FormatOutcome(o))
		}
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatSummary(report))

	if deps.Metrics != nil {
		if err := deps.Metrics.WriteToTextfile(c.MetricsFile); err != nil {
			deps.Logger.Warn("write metrics", "path", c.MetricsFile, "err", err)
		}
	}
	return runErr
}

// readURLs reads one URL per line. Blank lines and lines starting with #
// are skipped.
func readURLs(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EINVALID, "cannot read URLs")
	}
	return urls, nil
}
