// Package theory holds the read-only air-conditioning guide shown in the bot.
package theory

import (
	"encoding/json"
	"fmt"
	"os"
)

type Topic struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Section struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Blurb  string  `json:"blurb"`
	Topics []Topic `json:"topics"`
}

// Guide keeps sections and topics in file order.
type Guide struct {
	sections []Section
}

// Load reads the guide at path. On failure it returns an empty guide and the error.
func Load(path string) (*Guide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Guide{}, fmt.Errorf("read theory guide: %w", err)
	}
	var doc struct {
		Sections []Section `json:"sections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &Guide{}, fmt.Errorf("decode theory guide: %w", err)
	}
	return New(doc.Sections), nil
}

func New(sections []Section) *Guide {
	return &Guide{sections: sections}
}

func (g *Guide) Sections() []Section { return g.sections }

func (g *Guide) Section(key string) (Section, bool) {
	for _, s := range g.sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

func (g *Guide) Topic(sectionKey, topicKey string) (Topic, bool) {
	s, ok := g.Section(sectionKey)
	if !ok {
		return Topic{}, false
	}
	for _, t := range s.Topics {
		if t.Key == topicKey {
			return t, true
		}
	}
	return Topic{}, false
}
