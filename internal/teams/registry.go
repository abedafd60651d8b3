package teams

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Team is one scoreboard team entry.
type Team struct {
	Country         string   `json:"country,omitempty" yaml:"country,omitempty"`
	ID              string   `json:"id" yaml:"id"`
	Members         []string `json:"members" yaml:"members"`
	Name            string   `json:"name" yaml:"name"`
	Photo           string   `json:"photo" yaml:"photo"`
	University      string   `json:"university" yaml:"university"`
	UniversityShort string   `json:"universityShort" yaml:"universityShort"`
}

// Registry maps team IDs to teams and remembers insertion order.
type Registry struct {
	order []string
	teams map[string]Team
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{teams: map[string]Team{}}
}

// Put stores the team under its ID. An existing entry is replaced in place and
// keeps its original position; replaced reports whether that happened.
func (r *Registry) Put(team Team) (replaced bool) {
	if _, ok := r.teams[team.ID]; ok {
		replaced = true
	} else {
		r.order = append(r.order, team.ID)
	}
	r.teams[team.ID] = team
	return replaced
}

// Get returns the team stored under id.
func (r *Registry) Get(id string) (Team, bool) {
	if r == nil {
		return Team{}, false
	}
	team, ok := r.teams[id]
	return team, ok
}

// Len returns the number of teams.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// IDs returns the team IDs in insertion order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string{}, r.order...)
}

// Teams returns the teams in insertion order.
func (r *Registry) Teams() []Team {
	if r == nil {
		return nil
	}
	out := make([]Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}
	return out
}

// MarshalJSON writes the registry as an object keyed by team ID in
// insertion order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(id)
		if err != nil {
			return nil, err
		}
		value, err := marshalNoEscape(r.teams[id])
		if err != nil {
			return nil, fmt.Errorf("teams: encode %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML builds an ordered mapping node keyed by team ID.
func (r *Registry) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range r.IDs() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		value := &yaml.Node{}
		if err := value.Encode(r.teams[id]); err != nil {
			return nil, fmt.Errorf("teams: encode %s: %w", id, err)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// marshalNoEscape keeps <, >, and & literal in names and URLs.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
