package mock

import "github.com/fwojciec/clipdoc"

var (
	_ clipdoc.Extractor = (*Extractor)(nil)
	_ clipdoc.Cleaner   = (*Cleaner)(nil)
	_ clipdoc.Pruner    = (*Pruner)(nil)
)

// Extractor is a mock implementation of clipdoc.Extractor.
type Extractor struct {
	NameFn    func() string
	ExtractFn func(html string) (*clipdoc.ExtractResult, error)
}

func (e *Extractor) Name() string {
	return e.NameFn()
}

func (e *Extractor) Extract(html string) (*clipdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Cleaner is a mock implementation of clipdoc.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (string, error)
}

func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanFn(html)
}

// Pruner is a mock implementation of clipdoc.Pruner.
type Pruner struct {
	PruneFn func(html string) (string, error)
}

func (p *Pruner) Prune(html string) (string, error) {
	return p.PruneFn(html)
}
