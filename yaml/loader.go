// Package yaml reads command-line configuration from YAML files.
package yaml

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/clipdoc"
	"gopkg.in/yaml.v3"
)

// Ensure Loader is a kong.ConfigurationLoader.
var _ kong.ConfigurationLoader = Loader

// Loader returns a resolver that supplies flag values from a YAML
// document. Keys are flag names with dashes or underscores. A section
// named after a command holds values for that command's flags and wins
// over top-level keys.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, clipdoc.Wrapf(err, clipdoc.EINVALID, "invalid configuration file")
	}

	var f kong.ResolverFunc = func(ctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := commandName(parent); cmd != "" {
			if section, ok := values[cmd].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		v, _ := lookup(values, flag.Name)
		return v, nil
	}
	return f, nil
}

func lookup(values map[string]any, name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func commandName(parent *kong.Path) string {
	if parent == nil {
		return ""
	}
	if n := parent.Node(); n != nil && n.Type == kong.CommandNode {
		return n.Name
	}
	return ""
}
