package mock

import "github.com/fwojciec/clipdoc"

var (
	_ clipdoc.Converter   = (*Converter)(nil)
	_ clipdoc.BlockParser = (*BlockParser)(nil)
)

// Converter is a mock implementation of clipdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// BlockParser is a mock implementation of clipdoc.BlockParser.
type BlockParser struct {
	ParseFn func(markdown string) ([]clipdoc.Block, error)
}

func (p *BlockParser) Parse(markdown string) ([]clipdoc.Block, error) {
	return p.ParseFn(markdown)
}
