package analysis

import (
	"slices"

	"github.com/Harshitk-cp/plotweave/internal/domain"
)

// corroborationWeight scales a new technique's confidence before it is
// added to an existing entity.
const corroborationWeight = 0.25

// Fuse folds technique results, in the order given, into one entity per
// exact name. Entities come out in order of first sighting.
func Fuse(kind domain.EntityKind, results []TechniqueResult) []domain.FusedEntity {
	var fused []domain.FusedEntity
	index := make(map[string]int)

	for _, result := range results {
		for _, c := range result.Candidates {
			if c.Kind != kind || c.Name == "" {
				continue
			}
			if c.Source == "" {
				c.Source = result.Technique
			}
			if i, ok := index[c.Name]; ok {
				fused[i] = MergeCandidate(fused[i], c)
				continue
			}
			index[c.Name] = len(fused)
			fused = append(fused, newFusedEntity(c))
		}
	}
	if fused == nil {
		return []domain.FusedEntity{}
	}
	return fused
}

func newFusedEntity(c domain.CandidateEntity) domain.FusedEntity {
	return domain.FusedEntity{
		Name:       c.Name,
		Kind:       c.Kind,
		Confidence: clampFloat(c.Confidence, 0, domain.MaxConfidence),
		Frequency:  c.Frequency,
		Attributes: c.Attributes,
		Sources:    []string{c.Source},
	}
}

// MergeCandidate returns e updated with one more sighting. Only a technique
// not already among the sources raises confidence, so merging the same
// candidate twice changes confidence at most once. The input is not
// modified.
func MergeCandidate(e domain.FusedEntity, c domain.CandidateEntity) domain.FusedEntity {
	out := e
	out.Attributes = e.Attributes.Merge(c.Attributes)
	out.Frequency = max(e.Frequency, c.Frequency)

	if c.Source == "" || slices.Contains(e.Sources, c.Source) {
		out.Sources = slices.Clone(e.Sources)
		return out
	}

	contribution := max(c.Confidence, 0) * corroborationWeight
	out.Confidence = min(domain.MaxConfidence, e.Confidence+contribution)

	out.Sources = append(slices.Clone(e.Sources), c.Source)
	slices.Sort(out.Sources)
	return out
}
