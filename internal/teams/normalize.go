// Package teams normalizes judge team records into the scoreboard's team
// registry.
package teams

import (
	"strings"

	"github.com/kingrea/livesite-config/internal/domjudge"
)

// DefaultPhoto is served for teams without an uploaded photo.
const DefaultPhoto = "/images/default-photo-regional.png"

// Logger receives operator-facing messages. It matches logging.Logger's
// signature; Warn carries conditions the operator should look at.
type Logger interface {
	Printf(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Options carries substitutable defaults.
type Options struct {
	DefaultPhoto string
	// DefaultCountry fills country for teams without a nationality. Empty
	// leaves country out.
	DefaultCountry string
	Logger         Logger
}

// Normalizer builds registries from team and group descriptors.
type Normalizer struct {
	opts Options
}

// NewNormalizer fills unset options with package defaults.
func NewNormalizer(opts Options) *Normalizer {
	if strings.TrimSpace(opts.DefaultPhoto) == "" {
		opts.DefaultPhoto = DefaultPhoto
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Normalizer{opts: opts}
}

// Normalize converts every visible team. Records without a usable name or ID
// are skipped and logged. When two records resolve to the same ID the later
// one wins.
func (n *Normalizer) Normalize(descriptors []domjudge.TeamDescriptor, groups []domjudge.GroupDescriptor) *Registry {
	groupNames := domjudge.GroupNames(groups)
	registry := NewRegistry()
	sources := map[string]string{}
	for i, desc := range descriptors {
		if desc.Hidden {
			continue
		}
		team, err := n.normalizeOne(desc, groupNames)
		if err != nil {
			n.opts.Logger.Warn("teams: skipping record %d (id %q, name %q): %v", i, desc.ID.String(), desc.RawName(), err)
			continue
		}
		if registry.Put(team) {
			n.opts.Logger.Warn("teams: id %q from %q overwrites earlier %q", team.ID, desc.RawName(), sources[team.ID])
		}
		sources[team.ID] = desc.RawName()
	}
	return registry
}

func (n *Normalizer) normalizeOne(desc domjudge.TeamDescriptor, groupNames map[string]string) (Team, error) {
	parts, err := SplitName(desc.RawName(), desc.ID.String())
	if err != nil {
		return Team{}, err
	}
	university := n.affiliation(desc, groupNames)
	team := Team{
		ID:              parts.ID,
		Members:         []string{},
		Name:            parts.Name,
		Photo:           n.photo(desc),
		University:      university,
		UniversityShort: university,
		Country:         strings.TrimSpace(desc.Nationality),
	}
	if team.Country == "" {
		team.Country = n.opts.DefaultCountry
	}
	return team, nil
}

func (n *Normalizer) photo(desc domjudge.TeamDescriptor) string {
	if len(desc.Photo) > 0 {
		if href := strings.TrimSpace(desc.Photo[0].Href); href != "" {
			return href
		}
	}
	return n.opts.DefaultPhoto
}

// affiliation prefers the team's own field, then the first group's name.
func (n *Normalizer) affiliation(desc domjudge.TeamDescriptor, groupNames map[string]string) string {
	if own := strings.TrimSpace(desc.Affiliation); own != "" {
		return own
	}
	if len(desc.GroupIDs) == 0 {
		return ""
	}
	return groupNames[desc.GroupIDs[0].String()]
}
