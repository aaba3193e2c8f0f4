package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SerializeYAML serializes front matter into YAML bytes (without delimiters).
//
// Keys are sorted recursively so that equal maps always serialize to equal
// bytes; fingerprints depend on this. An empty map yields an empty slice.
func SerializeYAML(fields FrontMatter) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := nodeFromStringMap(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeFromStringMap(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		valNode, err := nodeFromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func nodeFromAny(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		return scalar("!!str", vv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(vv)), nil
	case int:
		return scalar("!!int", strconv.Itoa(vv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(vv, 10)), nil
	case uint64:
		return scalar("!!int", strconv.FormatUint(vv, 10)), nil
	case uint:
		return scalar("!!int", strconv.FormatUint(uint64(vv), 10)), nil
	case float32:
		return scalar("!!float", strconv.FormatFloat(float64(vv), 'g', -1, 32)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(vv, 'g', -1, 64)), nil
	case time.Time:
		return scalar("!!timestamp", vv.UTC().Format(time.RFC3339)), nil
	case FrontMatter:
		return nodeFromStringMap(vv)
	case map[string]any:
		return nodeFromStringMap(vv)
	case map[any]any:
		return nodeFromAnyMap(vv)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := nodeFromAny(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unsupported front matter value of type %T", v)
	}
}

// nodeFromAnyMap handles mappings with non-string keys, which yaml.v3
// decodes as map[any]any. Keys keep their own tags and sort by their
// string form.
func nodeFromAnyMap(m map[any]any) (*yaml.Node, error) {
	type entry struct {
		sortKey string
		key     any
	}
	entries := make([]entry, 0, len(m))
	for k := range m {
		entries = append(entries, entry{sortKey: fmt.Sprint(k), key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].sortKey < entries[j].sortKey })

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		keyNode, err := nodeFromAny(e.key)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.key, err)
		}
		valNode, err := nodeFromAny(m[e.key])
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.key, err)
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}
