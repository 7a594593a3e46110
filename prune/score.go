package prune

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// Config controls scoring and pruning.
type Config struct {
	// Threshold is the base score below which a node is dropped.
	Threshold float64

	// MinWords is the word floor. Shorter nodes are dropped unless they
	// are headings or contain structural content.
	MinWords int

	// Dynamic lowers the threshold for content tags and raises it for
	// noise tags.
	Dynamic bool

	TextDensityWeight float64
	LinkDensityWeight float64
	TagWeight         float64
	ClassIDWeight     float64
}

// Default pruning settings.
const (
	DefaultThreshold = 0.48
	DefaultMinWords  = 10
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:         DefaultThreshold,
		MinWords:          DefaultMinWords,
		Dynamic:           true,
		TextDensityWeight: 0.4,
		LinkDensityWeight: 0.3,
		TagWeight:         0.2,
		ClassIDWeight:     0.1,
	}
}

// NeutralWeight applies to tags and class/id values with no known meaning.
const NeutralWeight = 0.5

var contentTagWeights = map[string]float64{
	"article":    1.5,
	"main":       1.4,
	"section":    1.1,
	"p":          1.2,
	"h1":         1.3,
	"h2":         1.2,
	"h3":         1.1,
	"h4":         1.0,
	"h5":         1.0,
	"h6":         1.0,
	"blockquote": 1.1,
	"pre":        1.0,
	"code":       1.0,
	"figure":     1.0,
	"figcaption": 1.0,
	"table":      0.9,
	"ul":         0.8,
	"ol":         0.9,
	"li":         0.8,
	"div":        0.7,
	"span":       0.6,
}

var noiseTagWeights = map[string]float64{
	"nav":    0.1,
	"header": 0.2,
	"footer": 0.1,
	"aside":  0.2,
	"menu":   0.1,
	"form":   0.3,
	"button": 0.2,
	"input":  0.1,
	"select": 0.1,
	"iframe": 0.1,
}

var (
	contentPattern = regexp.MustCompile(`(?i)(article|content|post|entry|main|body|text|story|blog|news)`)
	noisePattern   = regexp.MustCompile(`(?i)(nav|menu|sidebar|footer|header|ad|banner|promo|social|share|` +
		`comment|related|widget|popup|modal|cookie|newsletter|subscribe|` +
		`sponsored|advertisement|tracking|analytics|breadcrumb|pagination)`)
)

var (
	headingTags   = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}
	structureTags = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.Article, atom.Main, atom.P}
)

// RescueLength is the text length a nested content node needs to save a
// low-scoring ancestor.
const RescueLength = 50

// Scorer computes content scores. All methods are pure.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// TagWeight returns the importance weight of a tag.
func (s *Scorer) TagWeight(tag string) float64 {
	if w, ok := noiseTagWeights[tag]; ok {
		return w
	}
	if w, ok := contentTagWeights[tag]; ok {
		return w
	}
	return NeutralWeight
}

// ClassIDWeight returns 0.3 for noise-like class/id values, 1.3 for
// content-like ones and 1.0 otherwise. Noise patterns are checked first.
func (s *Scorer) ClassIDWeight(n Node) float64 {
	v := n.ClassID()
	if strings.TrimSpace(v) == "" {
		return 1.0
	}
	if noisePattern.MatchString(v) {
		return 0.3
	}
	if contentPattern.MatchString(v) {
		return 1.3
	}
	return 1.0
}

// TextDensity is text length over markup length, doubled and capped at 1.
func (s *Scorer) TextDensity(n Node) float64 {
	text := n.TextLen()
	if text == 0 {
		return 0
	}
	markup := n.MarkupLen()
	if markup == 0 {
		return 0
	}
	return min(float64(text)/float64(markup)*2, 1)
}

// LinkDensity is one minus the share of text inside anchors, so
// link-heavy nodes score low.
func (s *Scorer) LinkDensity(n Node) float64 {
	text := n.TextLen()
	if text == 0 {
		return 0
	}
	density := float64(n.LinkTextLen()) / float64(text)
	return 1 - min(density, 1)
}

// Score returns the content score of n in [0, 1].
func (s *Scorer) Score(n Node) float64 {
	tw := s.TagWeight(n.Tag())
	cw := s.ClassIDWeight(n)
	score := s.cfg.TextDensityWeight*s.TextDensity(n) +
		s.cfg.LinkDensityWeight*s.LinkDensity(n) +
		s.cfg.TagWeight*min(tw, 1) +
		s.cfg.ClassIDWeight*min(cw, 1)
	score *= tw * cw
	return min(max(score, 0), 1)
}

// Threshold returns the drop threshold for n.
func (s *Scorer) Threshold(n Node) float64 {
	t := s.cfg.Threshold
	if !s.cfg.Dynamic {
		return t
	}
	switch tw := s.TagWeight(n.Tag()); {
	case tw > 1:
		t *= 0.8
	case tw < 0.5:
		t *= 1.2
	}
	return t
}

// Keep reports whether n survives pruning.
func (s *Scorer) Keep(n Node) bool {
	if n.Words() < s.cfg.MinWords && !isHeading(n) && len(n.Find(structureTags...)) == 0 {
		return false
	}
	if s.Score(n) >= s.Threshold(n) {
		return true
	}
	for _, c := range n.Find(atom.Article, atom.Main, atom.P, atom.H1, atom.H2, atom.H3) {
		if c.TextLen() > RescueLength {
			return true
		}
	}
	return false
}

func isHeading(n Node) bool {
	for _, t := range headingTags {
		if n.n.DataAtom == t {
			return true
		}
	}
	return false
}
