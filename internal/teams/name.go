package teams

import (
	"errors"
	"strings"
)

// NameVariant identifies how a raw team name carries the team ID.
type NameVariant int

const (
	// VariantPlain names carry no ID; the descriptor's own id is used.
	VariantPlain NameVariant = iota
	// VariantColonEncoded names look like "<id>: <name>".
	VariantColonEncoded
)

func (v NameVariant) String() string {
	switch v {
	case VariantColonEncoded:
		return "colon-encoded"
	default:
		return "plain"
	}
}

var (
	// ErrNoName marks a record with neither display_name nor name.
	ErrNoName = errors.New("teams: record has no name")
	// ErrNoTeamID marks a record whose ID resolves to an empty string.
	ErrNoTeamID = errors.New("teams: record has no usable id")
)

// NameParts is the outcome of splitting one raw name.
type NameParts struct {
	Variant NameVariant
	ID      string
	Name    string
}

// SplitName picks the variant per record by looking for a colon. Colon-encoded
// names split on the first colon and trim both halves; an empty prefix falls
// back to fallbackID. Plain names keep the raw name verbatim and take
// fallbackID as the ID.
func SplitName(raw, fallbackID string) (NameParts, error) {
	if strings.TrimSpace(raw) == "" {
		return NameParts{}, ErrNoName
	}
	fallbackID = strings.TrimSpace(fallbackID)
	parts := NameParts{Variant: VariantPlain, ID: fallbackID, Name: raw}
	if idx := strings.Index(raw, ":"); idx >= 0 {
		parts.Variant = VariantColonEncoded
		parts.Name = strings.TrimSpace(raw[idx+1:])
		if prefix := strings.TrimSpace(raw[:idx]); prefix != "" {
			parts.ID = prefix
		}
	}
	if parts.ID == "" {
		return parts, ErrNoTeamID
	}
	return parts, nil
}
