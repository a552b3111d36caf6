package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
)

const (
	chronologicalStrength = 2
	causalStrength        = 8
	// causalPrefixRunes is how much of a long title must appear in a later
	// description to count as a causal reference.
	causalPrefixRunes = 15
	// thematicThreshold is exclusive.
	thematicThreshold = 0.2
)

// DependencyBuilder derives edges between every ordered pair of events.
type DependencyBuilder struct {
	newID func() uuid.UUID
}

func NewDependencyBuilder(newID func() uuid.UUID) *DependencyBuilder {
	if newID == nil {
		newID = uuid.New
	}
	return &DependencyBuilder{newID: newID}
}

// Build evaluates chronological, causal and thematic edges independently for
// each (earlier, later) pair, ordered by sequence number. The input slice is
// not reordered.
func (b *DependencyBuilder) Build(events []domain.Event) []domain.Dependency {
	deps := make([]domain.Dependency, 0)
	if len(events) < 2 {
		return deps
	}

	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	words := make([]map[string]struct{}, len(sorted))
	for i, e := range sorted {
		words[i] = rareWords(e.Description)
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			earlier, later := sorted[i], sorted[j]

			if earlier.SequenceNumber < later.SequenceNumber {
				deps = append(deps, b.edge(earlier, later, domain.DependencyChronological, chronologicalStrength))
			}
			if refersTo(later.Description, earlier.Title) {
				deps = append(deps, b.edge(earlier, later, domain.DependencyCausal, causalStrength))
			}
			if ratio := overlapRatio(words[i], words[j]); ratio > thematicThreshold {
				strength := clampInt(int(math.Round(ratio*10)), 1, 10)
				deps = append(deps, b.edge(earlier, later, domain.DependencyThematic, strength))
			}
		}
	}
	return deps
}

func (b *DependencyBuilder) edge(from, to domain.Event, kind domain.DependencyKind, strength int) domain.Dependency {
	return domain.Dependency{
		ID:                 b.newID(),
		PredecessorEventID: from.ID,
		SuccessorEventID:   to.ID,
		Kind:               kind,
		Strength:           strength,
	}
}

// refersTo reports whether description mentions title, or the first runes
// of title when it is long. Truncation markers are ignored.
func refersTo(description, title string) bool {
	title = strings.TrimSpace(strings.TrimSuffix(title, titleEllipsis))
	if title == "" {
		return false
	}
	if utf8.RuneCountInString(title) > causalPrefixRunes {
		title = prefixRunes(title, causalPrefixRunes)
	}
	return containsFold(description, title)
}
