package pipeline

import (
	"bytes"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// splitFrontmatter separates a leading YAML block fenced by "---" lines from the body.
// Sources without an opening fence have no frontmatter.
func splitFrontmatter(data []byte) (map[string]any, []byte, error) {
	first, rest, found := bytes.Cut(data, []byte("\n"))
	if !bytes.Equal(bytes.TrimSpace(first), fence) {
		return map[string]any{}, data, nil
	}
	if !found {
		return nil, nil, zerr.Wrap(domain.ErrFrontmatterInvalid, "missing closing delimiter")
	}

	var block []byte
	for len(rest) > 0 {
		line, tail, _ := bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			meta := map[string]any{}
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return nil, nil, zerr.Wrap(domain.ErrFrontmatterInvalid, err.Error())
			}
			if meta == nil {
				meta = map[string]any{}
			}
			return meta, tail, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = tail
	}
	return nil, nil, zerr.Wrap(domain.ErrFrontmatterInvalid, "missing closing delimiter")
}
