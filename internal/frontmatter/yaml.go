package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoBlock is returned when a document has no metadata block to edit.
var ErrNoBlock = errors.New("document has no frontmatter block")

// YAML decodes blocks with gopkg.in/yaml.v3. Items of block sequences are
// kept as the text written after the dash, so an unquoted item such as
// "- Setup: Infra" stays a string instead of becoming a mapping.
type YAML struct{}

func (YAML) Decode(block string) (Fields, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil, nil, err
	}
	fields := Fields{}
	m := mappingOf(&root)
	if m == nil {
		if len(root.Content) == 0 || root.Content[0].Tag == "!!null" {
			return fields, nil, nil
		}
		return nil, nil, fmt.Errorf("frontmatter must be a mapping, got %s", root.Content[0].Tag)
	}
	lines := strings.Split(block, "\n")
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i].Value
		v, err := nodeValue(m.Content[i+1], lines)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", k, err)
		}
		if !fields.Has(k) {
			keys = append(keys, k)
		}
		fields[k] = v
	}
	return fields, keys, nil
}

func nodeValue(n *yaml.Node, lines []string) (any, error) {
	if n.Kind != yaml.SequenceNode || n.Style&yaml.FlowStyle != 0 {
		var v any
		err := n.Decode(&v)
		return v, err
	}
	items := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.ScalarNode {
			items = append(items, c.Value)
			continue
		}
		if text, ok := sourceText(c, lines); ok {
			items = append(items, text)
			continue
		}
		var v any
		if err := c.Decode(&v); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// sourceText returns the literal text of a sequence item from its first
// line: everything from the node's column to the end of the line, minus a
// trailing comment and surrounding quotes.
func sourceText(n *yaml.Node, lines []string) (string, bool) {
	if n.Line < 1 || n.Line > len(lines) || n.Column < 1 {
		return "", false
	}
	line := []rune(strings.TrimRight(lines[n.Line-1], "\r"))
	if n.Column > len(line) {
		return "", false
	}
	text := string(line[n.Column-1:])
	if i := strings.Index(text, " #"); i >= 0 {
		text = text[:i]
	}
	text = unquote(strings.TrimSpace(text))
	return text, text != ""
}

func mappingOf(root *yaml.Node) *yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	if n := root.Content[0]; n.Kind == yaml.MappingNode {
		return n
	}
	return nil
}

// SetScalar rewrites key in text's metadata block to a quoted string value,
// appending the key when it is absent. The body is left untouched.
func SetScalar(text, key, value string) (string, error) {
	loc := blockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", ErrNoBlock
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text[loc[2]:loc[3]]), &root); err != nil {
		return "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	m := mappingOf(&root)
	if m == nil {
		return "", fmt.Errorf("frontmatter is not a mapping")
	}

	set := false
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = quoted(value)
			set = true
			break
		}
	}
	if !set {
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, quoted(value))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return "---\n" + buf.String() + "---" + text[loc[1]:], nil
}

func quoted(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: yaml.DoubleQuotedStyle}
}
