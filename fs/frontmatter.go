package fs

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a document file.
type Frontmatter struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Updated time.Time `yaml:"updated"`
	Hash    string    `yaml:"hash"`
}

var delim = []byte("---\n")

// FormatDocument formats a document body with YAML frontmatter.
func FormatDocument(fm Frontmatter, body string) (string, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.Write(delim)
	b.Write(header)
	b.Write(delim)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String(), nil
}

// ParseDocument splits a document file into its frontmatter and body.
// Files without frontmatter return an error.
func ParseDocument(data []byte) (Frontmatter, string, error) {
	var fm Frontmatter
	if !bytes.HasPrefix(data, delim) {
		return fm, "", fmt.Errorf("missing frontmatter")
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, append([]byte("\n"), delim...))
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated frontmatter")
	}
	if err := yaml.Unmarshal(rest[:end+1], &fm); err != nil {
		return fm, "", fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	body := rest[end+1+len(delim):]
	return fm, string(bytes.TrimPrefix(body, []byte("\n"))), nil
}

// hashBody returns the hex xxHash of a document body.
func hashBody(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}
