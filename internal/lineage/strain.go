package lineage

import (
	"errors"
	"strings"
)

// Type is the genetic category of a strain. It only drives colour-coding.
type Type string

const (
	Sativa    Type = "Sativa"
	Indica    Type = "Indica"
	Hybrid    Type = "Hybrid"
	Ruderalis Type = "Ruderalis"
	Other     Type = "Other"

	// RootType marks the synthetic invisible root.
	RootType Type = "root"
)

// RootID is the id of the synthetic root that holds every top-level strain.
const RootID = "root"

// ErrNotFound is returned when a strain id is not present in the dataset.
var ErrNotFound = errors.New("strain not found")

// Types lists the real categories in legend order.
var Types = []Type{Sativa, Indica, Hybrid, Ruderalis}

// ParseType maps a free-form string onto a known Type, case-insensitively.
// Anything unrecognised becomes Other.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sativa":
		return Sativa
	case "indica":
		return Indica
	case "hybrid":
		return Hybrid
	case "ruderalis", "auto", "autoflower":
		return Ruderalis
	case "root":
		return RootType
	default:
		return Other
	}
}

// Strain is one node of the authored lineage tree. Parents are the genetic
// ancestors, and at the same time the children of the traversal.
// The same ID may appear under several descendants.
type Strain struct {
	ID      string    `yaml:"id" json:"id"`
	Name    string    `yaml:"name" json:"name"`
	Year    int       `yaml:"year" json:"year"`
	Type    Type      `yaml:"type" json:"type"`
	Parents []*Strain `yaml:"parents,omitempty" json:"parents,omitempty"`
}

// IsRoot reports whether s is the synthetic root.
func (s *Strain) IsRoot() bool {
	return s != nil && (s.ID == RootID || s.Type == RootType)
}

// NewRoot wraps top-level strains under the synthetic root. The root's year
// is the latest year among them so it sits at the young end of the timeline.
func NewRoot(top []*Strain) *Strain {
	year := 0
	for _, s := range top {
		if s.Year > year {
			year = s.Year
		}
	}
	return &Strain{
		ID:      RootID,
		Name:    "",
		Year:    year,
		Type:    RootType,
		Parents: top,
	}
}

// Lineage returns the id of s together with the ids of all its transitive
// ancestors, walking the raw Parents links. Ids already collected are not
// revisited, so a cyclic reference in hand-authored data terminates.
func Lineage(s *Strain) map[string]bool {
	set := make(map[string]bool)
	if s == nil {
		return set
	}
	set[s.ID] = true
	collectAncestors(s, set)
	return set
}

func collectAncestors(s *Strain, set map[string]bool) {
	for _, p := range s.Parents {
		if p == nil || set[p.ID] {
			continue
		}
		set[p.ID] = true
		collectAncestors(p, set)
	}
}

// Find returns the first strain with the given id in depth-first order.
func Find(root *Strain, id string) (*Strain, error) {
	seen := make(map[*Strain]bool)
	var walk func(s *Strain) *Strain
	walk = func(s *Strain) *Strain {
		if s == nil || seen[s] {
			return nil
		}
		seen[s] = true
		if s.ID == id {
			return s
		}
		for _, p := range s.Parents {
			if hit := walk(p); hit != nil {
				return hit
			}
		}
		return nil
	}
	if hit := walk(root); hit != nil {
		return hit, nil
	}
	return nil, ErrNotFound
}
