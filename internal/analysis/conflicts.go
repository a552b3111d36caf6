package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
)

var ErrUnknownEvent = errors.New("dependency references unknown event")

// ValidateDependencies checks that every edge endpoint is a known event.
func ValidateDependencies(events []domain.Event, deps []domain.Dependency) error {
	known := make(map[uuid.UUID]struct{}, len(events))
	for _, e := range events {
		known[e.ID] = struct{}{}
	}
	for _, d := range deps {
		if _, ok := known[d.PredecessorEventID]; !ok {
			return fmt.Errorf("dependency %s predecessor %s: %w", d.ID, d.PredecessorEventID, ErrUnknownEvent)
		}
		if _, ok := known[d.SuccessorEventID]; !ok {
			return fmt.Errorf("dependency %s successor %s: %w", d.ID, d.SuccessorEventID, ErrUnknownEvent)
		}
	}
	return nil
}

// DetectConflicts is a read-only pass over an edge set. Sequence conflicts
// come first in edge order, followed by one record per distinct cycle.
func DetectConflicts(events []domain.Event, deps []domain.Dependency) []domain.Conflict {
	conflicts := sequenceConflicts(events, deps)
	return append(conflicts, circularConflicts(events, deps)...)
}

func sequenceConflicts(events []domain.Event, deps []domain.Dependency) []domain.Conflict {
	seq := make(map[uuid.UUID]int, len(events))
	for _, e := range events {
		seq[e.ID] = e.SequenceNumber
	}

	conflicts := make([]domain.Conflict, 0)
	for _, d := range deps {
		from, okFrom := seq[d.PredecessorEventID]
		to, okTo := seq[d.SuccessorEventID]
		if !okFrom || !okTo || from < to {
			continue
		}
		id := d.ID
		conflicts = append(conflicts, domain.Conflict{
			Kind:         domain.ConflictSequence,
			EventIDs:     []uuid.UUID{d.PredecessorEventID, d.SuccessorEventID},
			DependencyID: &id,
			Description: fmt.Sprintf("%s dependency runs from sequence %d to sequence %d",
				d.Kind, from, to),
		})
	}
	return conflicts
}

type dfsFrame struct {
	node uuid.UUID
	next int
}

// circularConflicts runs an iterative depth-first search from every node,
// tracking the current path. Reaching a node already on the path closes a
// cycle made of the path from that node to the current one.
func circularConflicts(events []domain.Event, deps []domain.Dependency) []domain.Conflict {
	adjacency := make(map[uuid.UUID][]uuid.UUID)
	for _, d := range deps {
		adjacency[d.PredecessorEventID] = append(adjacency[d.PredecessorEventID], d.SuccessorEventID)
	}

	conflicts := make([]domain.Conflict, 0)
	visited := make(map[uuid.UUID]bool)
	reported := make(map[string]bool)

	for _, root := range graphNodes(events, deps) {
		if visited[root] {
			continue
		}

		stack := []dfsFrame{{node: root}}
		path := []uuid.UUID{root}
		onPath := map[uuid.UUID]int{root: 0}
		visited[root] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := adjacency[top.node]
			if top.next >= len(edges) {
				delete(onPath, top.node)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			next := edges[top.next]
			top.next++

			if start, ok := onPath[next]; ok {
				cycle := append([]uuid.UUID(nil), path[start:]...)
				key := cycleKey(cycle)
				if !reported[key] {
					reported[key] = true
					conflicts = append(conflicts, domain.Conflict{
						Kind:        domain.ConflictCircular,
						EventIDs:    cycle,
						Description: fmt.Sprintf("circular dependency between %d events", len(cycle)),
					})
				}
				continue
			}
			if visited[next] {
				continue
			}

			visited[next] = true
			onPath[next] = len(path)
			path = append(path, next)
			stack = append(stack, dfsFrame{node: next})
		}
	}
	return conflicts
}

// graphNodes lists events by sequence number, then any edge endpoint that is
// not a known event, in edge order.
func graphNodes(events []domain.Event, deps []domain.Dependency) []uuid.UUID {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	seen := make(map[uuid.UUID]bool)
	nodes := make([]uuid.UUID, 0, len(sorted))
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, id)
		}
	}
	for _, e := range sorted {
		add(e.ID)
	}
	for _, d := range deps {
		add(d.PredecessorEventID)
		add(d.SuccessorEventID)
	}
	return nodes
}

// cycleKey identifies a cycle by its member set.
func cycleKey(cycle []uuid.UUID) string {
	ids := make([]string, len(cycle))
	for i, id := range cycle {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
