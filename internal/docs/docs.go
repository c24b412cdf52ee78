// Package docs holds the articles printed by "grav docs".
package docs

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Topic is one article.
type Topic struct {
	Name    string // argument to "grav docs"
	Title   string
	Summary string // shown in the topic list
	Content string // plain text, starts with Title
}

// All returns every topic in display order.
func All() []Topic {
	return topics
}

type topicNames []Topic

func (t topicNames) String(i int) string { return t[i].Name }
func (t topicNames) Len() int            { return len(t) }

// Get finds a topic by name, ignoring case. An unknown name is answered
// with the closest topic when one is similar enough.
func Get(name string) (Topic, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range topics {
		if t.Name == key {
			return t, nil
		}
	}
	if m := fuzzy.FindFrom(key, topicNames(topics)); key != "" && len(m) > 0 {
		return Topic{}, fmt.Errorf("unknown topic %q; did you mean %q? run 'grav docs' to list available topics", name, topics[m[0].Index].Name)
	}
	return Topic{}, fmt.Errorf("unknown topic %q; run 'grav docs' to list available topics", name)
}
