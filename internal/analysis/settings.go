package analysis

import (
	"regexp"
	"strings"

	"github.com/Harshitk-cp/plotweave/internal/domain"
)

const (
	TechniquePrepositionalPhrase = "prepositional_phrase"
	TechniqueMovementVerb        = "movement_verb"
	TechniquePlaceKeyword        = "place_keyword"

	TechniquePossessionVerb        = "possession_verb"
	TechniquePlacementVerb         = "placement_verb"
	TechniqueSignificanceAdjective = "significance_adjective"
)

const (
	defaultLocationType = "place"
	defaultObjectType   = "item"
	minObjectNounLength = 3
)

// placeName is up to three capitalized words. The trailing group catches a
// possessive so that "at Alice's side" is not read as a place.
const placeName = `(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+){0,2})('s)?` + wordEnd

var (
	movementVerbs = []string{
		"arrived", "traveled", "travelled", "returned", "went", "fled",
		"journeyed", "sailed", "rode", "headed", "moved", "marched",
	}
	arrivalVerbs = []string{
		"reached", "entered", "visited", "crossed", "left", "approached",
	}
	possessionVerbs = []string{
		"had", "has", "held", "holds", "carried", "carries", "owned", "owns",
		"possessed", "kept", "wore", "wielded", "grabbed", "took", "clutched",
		"drew", "found", "stole", "gave", "received", "inherited", "bought",
	}
	placementVerbs = []string{
		"put", "placed", "hid", "left", "stored", "buried", "dropped", "set",
		"laid", "locked", "tucked", "hung",
	}
	determiners = `(?:a|an|the|his|her|their|its|my|our|your)`
)

var (
	prepositionalPlace = regexp.MustCompile(`\b` + alternation(locationPrepositions) + `\s+(?:the\s+)?` + placeName)

	movementPlace = regexp.MustCompile(`\b` + alternation(movementVerbs) +
		`\s+(?:back\s+)?(?:to|into|toward|towards|from|for)\s+(?:the\s+)?` + placeName)
	arrivalPlace = regexp.MustCompile(`\b` + alternation(arrivalVerbs) + `\s+(?:the\s+)?` + placeName)

	keywordSuffixPlace = regexp.MustCompile(wordStart + `((?:\p{Lu}\p{Ll}+\s+){1,2}` + alternation(placeKeywords) + `)('s)?\b`)
	keywordPrefixPlace = regexp.MustCompile(`\b((?:Mount|Lake|Castle|Fort|Port|Isle|Cape|Kingdom\s+of|City\s+of|Isle\s+of|Realm\s+of)\s+\p{Lu}\p{Ll}+)('s)?` + wordEnd)

	objectAdjectives = alternation(append(append([]string{}, significanceAdjectives...), plainAdjectives...))

	possessedObject = regexp.MustCompile(wordStart + `(?:(\p{Lu}\p{Ll}+)\s+)?` + alternation(possessionVerbs) +
		`\s+` + determiners + `\s+(?:` + objectAdjectives + `\s+){0,2}(\p{Ll}+)`)
	placedObject = regexp.MustCompile(`\b` + alternation(placementVerbs) +
		`\s+` + determiners + `\s+(?:` + objectAdjectives + `\s+){0,2}(\p{Ll}+)\s+` +
		`(?:in|inside|into|on|under|beneath|behind|at|near|within)\s+(?:the\s+|a\s+|an\s+)?(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+){0,2}|\p{Ll}+)`)
	significantObject = regexp.MustCompile(`\b` + capture(significanceAdjectives) +
		`\s+(?:` + objectAdjectives + `\s+)?(\p{Ll}+)`)
)

var adjectiveSet = set(append(append([]string{}, significanceAdjectives...), plainAdjectives...)...)

// LocationTechniques returns the location detectors in fusion order.
func LocationTechniques() []Technique {
	return []Technique{
		{Name: TechniquePrepositionalPhrase, Kind: domain.KindLocation, Extract: extractPrepositionalPlaces},
		{Name: TechniqueMovementVerb, Kind: domain.KindLocation, Extract: extractMovementPlaces},
		{Name: TechniquePlaceKeyword, Kind: domain.KindLocation, Extract: extractKeywordPlaces},
	}
}

// ObjectTechniques returns the object detectors in fusion order.
func ObjectTechniques() []Technique {
	return []Technique{
		{Name: TechniquePossessionVerb, Kind: domain.KindObject, Extract: extractPossessedObjects},
		{Name: TechniquePlacementVerb, Kind: domain.KindObject, Extract: extractPlacedObjects},
		{Name: TechniqueSignificanceAdjective, Kind: domain.KindObject, Extract: extractSignificantObjects},
	}
}

func isPlaceName(name string) bool {
	first, _, _ := strings.Cut(name, " ")
	return len(name) > 1 && !has(capitalizedStopwords, first)
}

func notPossessive(groups []string) bool {
	return groups[len(groups)-1] == ""
}

func extractPrepositionalPlaces(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniquePrepositionalPhrase,
		kind:         domain.KindLocation,
		minFrequency: 2,
		confidence:   fixedConfidence(0.6),
		rules:        []patternRule{{pattern: prepositionalPlace, nameGroup: 1, keep: notPossessive}},
		accept:       isPlaceName,
	})
}

func extractMovementPlaces(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueMovementVerb,
		kind:         domain.KindLocation,
		minFrequency: 2,
		confidence:   fixedConfidence(0.7),
		rules: []patternRule{
			{pattern: movementPlace, nameGroup: 1, keep: notPossessive},
			{pattern: arrivalPlace, nameGroup: 1, keep: notPossessive},
		},
		accept: isPlaceName,
	})
}

func extractKeywordPlaces(text string) []domain.CandidateEntity {
	typed := func(groups []string) domain.Attributes {
		return domain.Attributes{Type: placeType(collapseSpace(groups[1]))}
	}
	return collectCandidates(text, candidateSpec{
		source:       TechniquePlaceKeyword,
		kind:         domain.KindLocation,
		minFrequency: 2,
		confidence:   fixedConfidence(0.65),
		rules: []patternRule{
			{pattern: keywordSuffixPlace, nameGroup: 1, attrs: typed, keep: notPossessive},
			{pattern: keywordPrefixPlace, nameGroup: 1, attrs: typed, keep: notPossessive},
		},
		accept: isPlaceName,
	})
}

// placeType infers a location type from the keywords in its name. The last
// matching word decides, so "Castle Lake" is water and "Lake Castle" is a
// building.
func placeType(name string) string {
	found := ""
	for _, word := range strings.Fields(name) {
		for _, pt := range placeTypes {
			for _, kw := range pt.keywords {
				if word == kw {
					found = pt.placeType
				}
			}
		}
	}
	if found == "" {
		return defaultLocationType
	}
	return found
}

func isObjectNoun(noun string) bool {
	return len(noun) >= minObjectNounLength && !has(objectStopNouns, noun) && !has(adjectiveSet, noun)
}

func extractPossessedObjects(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniquePossessionVerb,
		kind:         domain.KindObject,
		minFrequency: 2,
		confidence:   fixedConfidence(0.6),
		rules: []patternRule{{
			pattern:   possessedObject,
			nameGroup: 2,
			attrs: func(groups []string) domain.Attributes {
				attrs := domain.Attributes{Type: objectType(groups[2])}
				if groups[1] != "" && isCandidateName(groups[1]) {
					attrs.Owner = groups[1]
				}
				return attrs
			},
		}},
		accept: isObjectNoun,
	})
}

func extractPlacedObjects(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniquePlacementVerb,
		kind:         domain.KindObject,
		minFrequency: 2,
		confidence:   fixedConfidence(0.6),
		rules: []patternRule{{
			pattern:   placedObject,
			nameGroup: 1,
			attrs: func(groups []string) domain.Attributes {
				return domain.Attributes{Type: objectType(groups[1]), Place: collapseSpace(groups[2])}
			},
		}},
		accept: isObjectNoun,
	})
}

func extractSignificantObjects(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueSignificanceAdjective,
		kind:         domain.KindObject,
		minFrequency: 2,
		confidence:   fixedConfidence(0.65),
		rules: []patternRule{{
			pattern:   significantObject,
			nameGroup: 2,
			attrs: func(groups []string) domain.Attributes {
				return domain.Attributes{
					Type:        objectType(groups[2]),
					Description: collapseSpace(groups[0]),
				}
			},
		}},
		accept: isObjectNoun,
	})
}

func objectType(noun string) string {
	for _, ot := range objectTypes {
		for _, n := range ot.nouns {
			if n == noun {
				return ot.objectType
			}
		}
	}
	return defaultObjectType
}
