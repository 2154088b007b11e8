package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/changed-containers/api"
	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// decodeYAML converts each entry of the top-level containers sequence to
// JSON, keeping mapping keys in document order.
func decodeYAML(data []byte) ([]json.RawMessage, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, domain.ErrMissingContainers
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping, got %s", kindName(root.Kind))
	}

	var containers *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == api.FieldContainers {
			containers = root.Content[i+1]
		}
	}
	if containers != nil && containers.Kind == yaml.AliasNode {
		containers = containers.Alias
	}
	if containers == nil || containers.Tag == "!!null" {
		return nil, domain.ErrMissingContainers
	}
	if containers.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("containers must be a sequence, got %s", kindName(containers.Kind))
	}

	entries := make([]json.RawMessage, 0, len(containers.Content))
	for i, n := range containers.Content {
		var buf bytes.Buffer
		if err := writeJSON(&buf, n); err != nil {
			return nil, fmt.Errorf("containers[%d]: %w", i, err)
		}
		entries = append(entries, buf.Bytes())
	}
	return entries, nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		return writeScalar(buf, v)
	default:
		return errors.New("unsupported YAML node")
	}
}

// writeScalar JSON-encodes v without HTML escaping so patterns such as
// (?P<name>...) are echoed as written.
func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
