// Package frontmatter reads the leading "---" metadata block of markdown
// documents such as .context/ACTIVE.md.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/state"
)

var blockRe = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---`)

// Fields holds decoded metadata values keyed by field name.
type Fields map[string]any

// Decoder turns the text between the markers into fields. Keys reports the
// field names in the order they appear in the block.
type Decoder interface {
	Decode(block string) (fields Fields, keys []string, err error)
}

// Document is a parsed frontmatter-headed document.
type Document struct {
	OK     bool     `json:"success"`
	Found  bool     `json:"found"`
	Fields Fields   `json:"frontmatter"`
	Keys   []string `json:"-"`
	Body   string   `json:"body"`
	Errors []string `json:"errors"`
}

// Reader parses documents with Primary and degrades to Fallback when the
// primary decoder rejects the block.
type Reader struct {
	Primary  Decoder
	Fallback Decoder
}

// Default decodes with yaml.v3 and falls back to the line scanner.
var Default = &Reader{Primary: YAML{}, Fallback: Lines{}}

// Parse extracts the metadata block from text. A document without a block
// is returned whole as Body with OK set.
func (r *Reader) Parse(text string) Document {
	doc := Document{OK: true, Fields: Fields{}}
	loc := blockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		doc.Body = text
		return doc
	}
	doc.Found = true
	block := text[loc[2]:loc[3]]
	doc.Body = strings.TrimLeft(text[loc[1]:], "\r\n")

	if r.Primary != nil {
		fields, keys, err := r.Primary.Decode(block)
		if err == nil {
			doc.Fields, doc.Keys = fields, keys
			return doc
		}
		doc.OK = false
		doc.Errors = append(doc.Errors, fmt.Sprintf("YAML parsing error: %v", err))
		if r.Fallback == nil {
			return doc
		}
	}

	fields, keys, err := r.Fallback.Decode(block)
	if fields != nil {
		doc.Fields, doc.Keys = fields, keys
	}
	if err != nil {
		doc.OK = false
		doc.Errors = append(doc.Errors, err.Error())
	}
	return doc
}

// ReadFile reads and parses the document at path.
func (r *Reader) ReadFile(path string) Document {
	text, err := state.ReadDocument(path)
	if err != nil {
		return Document{Fields: Fields{}, Errors: []string{state.DescribeReadError(path, err)}}
	}
	return r.Parse(text)
}

// Parse parses text with the Default reader.
func Parse(text string) Document { return Default.Parse(text) }

// ReadFile reads path with the Default reader.
func ReadFile(path string) Document { return Default.ReadFile(path) }

// String returns the scalar value of key rendered as text. Timestamps are
// formatted as RFC 3339.
func (f Fields) String(key string) string {
	return scalar(f[key])
}

// List returns the value of key as a list of strings. A scalar value becomes
// a one-element list; an empty scalar becomes an empty list.
func (f Fields) List(key string) []string {
	switch v := f[key].(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalar(item))
		}
		return out
	default:
		s := scalar(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// IsList reports whether the value of key is a sequence.
func (f Fields) IsList(key string) bool {
	switch f[key].(type) {
	case []any, []string:
		return true
	}
	return false
}

// IsMap reports whether the value of key is a nested mapping.
func (f Fields) IsMap(key string) bool {
	_, ok := f[key].(map[string]any)
	return ok
}

// Has reports whether key is present in the block.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
