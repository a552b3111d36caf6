package analysis

import (
	"regexp"
	"sort"

	"github.com/Harshitk-cp/plotweave/internal/domain"
)

const (
	// oppositionWindow bounds the gap between two names, in bytes, for an
	// adversarial keyword between them to count.
	oppositionWindow = 100
	// antagonistMinFrequency is exclusive.
	antagonistMinFrequency = 10
	backgroundMaxFrequency = 3
)

var oppositionPattern = regexp.MustCompile(`(?i)\b` + alternation(oppositionWords) + `\b`)

// RankedCharacter pairs a fused character with its assigned role.
type RankedCharacter struct {
	Entity domain.FusedEntity
	Role   domain.CharacterRole
}

// AssignRoles ranks characters by frequency, highest first with ties broken
// by name, and derives a role from the rank.
func AssignRoles(text string, characters []domain.FusedEntity) []RankedCharacter {
	ranked := make([]RankedCharacter, len(characters))
	for i, c := range characters {
		ranked[i] = RankedCharacter{Entity: c, Role: domain.RoleUnknown}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Entity, ranked[j].Entity
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Name < b.Name
	})

	for i := range ranked {
		c := ranked[i].Entity
		switch {
		case i == 0:
			ranked[i].Role = domain.RoleProtagonist
		case i <= 2 && c.Frequency > antagonistMinFrequency:
			if HasOpposition(text, ranked[0].Entity.Name, c.Name, oppositionWindow) {
				ranked[i].Role = domain.RoleAntagonist
			} else {
				ranked[i].Role = domain.RoleSupporting
			}
		case c.Frequency < backgroundMaxFrequency:
			ranked[i].Role = domain.RoleBackground
		default:
			ranked[i].Role = domain.RoleSupporting
		}
	}
	return ranked
}

// HasOpposition reports whether an adversarial keyword sits between an
// occurrence of a and an occurrence of b that are at most window bytes
// apart, in either order.
func HasOpposition(text, a, b string, window int) bool {
	as, bs := occurrences(text, a), occurrences(text, b)
	for _, x := range as {
		for _, y := range bs {
			first, second := x, y
			if y[0] < x[0] {
				first, second = y, x
			}
			if first[1] > second[0] {
				continue
			}
			if second[0]-first[1] > window {
				continue
			}
			if oppositionPattern.MatchString(text[first[1]:second[0]]) {
				return true
			}
		}
	}
	return false
}
