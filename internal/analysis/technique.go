package analysis

import (
	"context"
	"regexp"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ExtractFunc detects candidate entities in text. It must not mutate shared
// state: techniques for one kind run concurrently over the same text.
type ExtractFunc func(text string) []domain.CandidateEntity

// Technique is one independent detection strategy.
type Technique struct {
	Name    string
	Kind    domain.EntityKind
	Extract ExtractFunc
}

// TechniqueResult is a technique's output, kept with the technique name so
// fusion can fold results in a fixed order.
type TechniqueResult struct {
	Technique  string
	Candidates []domain.CandidateEntity
}

// RunTechniques executes every technique concurrently and returns the
// results indexed in technique order, whatever order they finished in.
func RunTechniques(ctx context.Context, text string, techniques []Technique) ([]TechniqueResult, error) {
	results := make([]TechniqueResult, len(techniques))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range techniques {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = TechniqueResult{
				Technique:  t.Name,
				Candidates: t.Extract(text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// patternRule captures a name (and optionally attributes) from each match.
// A nil keep accepts every match.
type patternRule struct {
	pattern   *regexp.Regexp
	nameGroup int
	attrs     func(groups []string) domain.Attributes
	keep      func(groups []string) bool
}

// candidateSpec describes a pattern-driven technique.
type candidateSpec struct {
	source       string
	kind         domain.EntityKind
	minFrequency int
	confidence   func(frequency int) float64
	rules        []patternRule
	accept       func(name string) bool
}

func fixedConfidence(c float64) func(int) float64 {
	return func(int) float64 { return c }
}

// collectCandidates runs the spec's rules and keeps names that occur at
// least minFrequency times in the text. Candidates come out in order of
// first match so that results are reproducible.
func collectCandidates(text string, spec candidateSpec) []domain.CandidateEntity {
	order := make([]string, 0)
	attrs := make(map[string]domain.Attributes)

	for _, rule := range spec.rules {
		for _, groups := range rule.pattern.FindAllStringSubmatch(text, -1) {
			if rule.nameGroup >= len(groups) || (rule.keep != nil && !rule.keep(groups)) {
				continue
			}
			name := collapseSpace(groups[rule.nameGroup])
			if name == "" || (spec.accept != nil && !spec.accept(name)) {
				continue
			}
			existing, seen := attrs[name]
			if !seen {
				order = append(order, name)
			}
			if rule.attrs != nil {
				existing = existing.Merge(rule.attrs(groups))
			}
			attrs[name] = existing
		}
	}

	candidates := make([]domain.CandidateEntity, 0, len(order))
	for _, name := range order {
		freq := countOccurrences(text, name)
		if freq < spec.minFrequency {
			continue
		}
		candidates = append(candidates, domain.CandidateEntity{
			Name:       name,
			Kind:       spec.kind,
			Confidence: spec.confidence(freq),
			Frequency:  freq,
			Attributes: attrs[name],
			Source:     spec.source,
		})
	}
	return candidates
}
