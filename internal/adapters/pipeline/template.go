package pipeline

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

const contentKey = "content"

var (
	partialPattern = regexp.MustCompile(`\{\{>\s*([\w/.-]+)\s*\}\}`)
	// Triple braces insert a value unescaped.
	variablePattern = regexp.MustCompile(`\{\{\{\s*([\w.-]+)\s*\}\}\}|\{\{\s*([\w.-]+)\s*\}\}`)
)

// partialSet accumulates the partial files read while expanding one page.
type partialSet struct {
	paths  []string
	blobs  map[string][]byte
	logger ports.Logger
}

func (s *partialSet) record(path string, data []byte) {
	if !slices.Contains(s.paths, path) {
		s.paths = append(s.paths, path)
	}
	if data != nil {
		s.blobs[path] = data
	}
}

// expandPartials replaces every {{> name}} in text with the partial's content,
// recursively. A missing partial is replaced by an HTML comment and reported as a
// warning; an include cycle is an error.
func (p *Pipeline) expandPartials(text string, stack []string, set *partialSet) (string, error) {
	var expandErr error
	out := partialPattern.ReplaceAllStringFunc(text, func(match string) string {
		if expandErr != nil {
			return match
		}
		name := partialPattern.FindStringSubmatch(match)[1]
		path := p.site.PartialPath(name)

		chain := slices.Concat(stack, []string{path})
		if slices.Contains(stack, path) {
			expandErr = zerr.With(zerr.Wrap(domain.ErrPartialCycle, strings.Join(chain, " -> ")), "partial", name)
			return match
		}

		//nolint:gosec // Partial names resolve inside the configured partials directory
		data, err := os.ReadFile(path)
		if err != nil {
			set.record(path, nil)
			set.logger.Warn(zerr.With(zerr.Wrap(domain.ErrPartialNotFound, name), "path", path).Error())
			return fmt.Sprintf("<!-- Missing partial: %s -->", name)
		}
		set.record(path, data)

		expanded, err := p.expandPartials(string(data), chain, set)
		if err != nil {
			expandErr = err
			return match
		}
		return expanded
	})
	return out, expandErr
}

// substitute replaces {{ key }} with the HTML-escaped value of key and {{{ key }}}
// with the raw value. The content key is never escaped. Unknown keys render empty.
func substitute(text string, data map[string]any) string {
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := variablePattern.FindStringSubmatch(match)
		if sub[1] != "" {
			return lookup(data, sub[1])
		}
		value := lookup(data, sub[2])
		if sub[2] == contentKey {
			return value
		}
		return html.EscapeString(value)
	})
}

// lookup resolves a dotted key through nested maps.
func lookup(data map[string]any, key string) string {
	var current any = data
	for part := range strings.SplitSeq(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = m[part]
		if !ok {
			return ""
		}
	}
	switch v := current.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
