package analysis

import (
	"regexp"

	"github.com/Harshitk-cp/plotweave/internal/domain"
)

// Technique identifiers for character detection, in fusion order.
const (
	TechniqueProperNoun          = "proper_noun_frequency"
	TechniqueDialogue            = "dialogue_attribution"
	TechniqueMidSentence         = "mid_sentence_capitalization"
	TechniqueDescriptiveClause   = "descriptive_clause"
	TechniqueActionSubject       = "action_subject"
	TechniqueRelationshipMention = "relationship_mention"
	TechniqueTitleHonorific      = "title_honorific"
)

// namePattern is a single capitalized word in any script.
const namePattern = `(\p{Lu}\p{Ll}+)`

var (
	wordToken  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	properName = regexp.MustCompile(`^\p{Lu}\p{Ll}+$`)

	speakerBefore = regexp.MustCompile(wordStart + namePattern + `\s+` + alternation(speechVerbs) + `\b`)
	speakerAfter  = regexp.MustCompile(`\b` + alternation(speechVerbs) + `\s+` + namePattern + wordEnd)

	midSentenceName = regexp.MustCompile(wordStart + `(\p{Ll}+)[,;:]?\s+` + namePattern)

	descriptiveClause = regexp.MustCompile(wordStart + namePattern +
		`\s+(?:was|is|seemed|looked|appeared|felt|grew|remained)\s+(?:(?:a|an|very|quite|rather|so|too|always|still)\s+)?(\p{Ll}+)`)

	actionSubject = regexp.MustCompile(wordStart + namePattern +
		`\s+(?:(?:[a-z]+ly|then|also|finally|slowly|quickly|suddenly)\s+)?` + alternation(actionVerbs) + `\b`)

	possessiveKinship = regexp.MustCompile(wordStart + namePattern + `'s\s+` + alternation(kinshipWords) + `\b`)
	appositiveKinship = regexp.MustCompile(`\b(?:his|her|their|my|our)\s+` + capture(kinshipWords) + `\s*,?\s+` + namePattern + wordEnd)

	honorificName = regexp.MustCompile(`\b` + capture(honorifics) + `(\.?)\s+` + namePattern + wordEnd)
)

// CharacterTechniques returns the character detectors in fusion order.
func CharacterTechniques() []Technique {
	return []Technique{
		{Name: TechniqueProperNoun, Kind: domain.KindCharacter, Extract: extractProperNouns},
		{Name: TechniqueDialogue, Kind: domain.KindCharacter, Extract: extractDialogueSpeakers},
		{Name: TechniqueMidSentence, Kind: domain.KindCharacter, Extract: extractMidSentenceNames},
		{Name: TechniqueDescriptiveClause, Kind: domain.KindCharacter, Extract: extractDescriptiveClauses},
		{Name: TechniqueActionSubject, Kind: domain.KindCharacter, Extract: extractActionSubjects},
		{Name: TechniqueRelationshipMention, Kind: domain.KindCharacter, Extract: extractRelationshipMentions},
		{Name: TechniqueTitleHonorific, Kind: domain.KindCharacter, Extract: extractHonorifics},
	}
}

func isCandidateName(name string) bool {
	return len(name) > 1 && !has(capitalizedStopwords, name)
}

func extractProperNouns(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueProperNoun,
		kind:         domain.KindCharacter,
		minFrequency: 3,
		confidence: func(freq int) float64 {
			return clampFloat(0.55+0.02*float64(freq-3), 0.55, 0.75)
		},
		rules: []patternRule{{
			pattern:   wordToken,
			nameGroup: 0,
			keep: func(groups []string) bool {
				return properName.MatchString(groups[0])
			},
		}},
		accept: isCandidateName,
	})
}

func extractDialogueSpeakers(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueDialogue,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.7),
		rules: []patternRule{
			{pattern: speakerBefore, nameGroup: 1},
			{pattern: speakerAfter, nameGroup: 1},
		},
		accept: isCandidateName,
	})
}

// extractMidSentenceNames picks capitalized words that follow a lowercase
// word, which rules out sentence-initial capitalization. Words introduced
// by a place preposition are left to the location detectors.
func extractMidSentenceNames(text string) []domain.CandidateEntity {
	places := set(locationPrepositions...)
	return collectCandidates(text, candidateSpec{
		source:       TechniqueMidSentence,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.5),
		rules: []patternRule{{
			pattern:   midSentenceName,
			nameGroup: 2,
			keep: func(groups []string) bool {
				return !has(places, groups[1])
			},
		}},
		accept: isCandidateName,
	})
}

func extractDescriptiveClauses(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueDescriptiveClause,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.6),
		rules: []patternRule{{
			pattern:   descriptiveClause,
			nameGroup: 1,
			attrs:     describe,
		}},
		accept: isCandidateName,
	})
}

// describe sorts a descriptive word into appearance, personality or a
// free-form description of the whole clause.
func describe(groups []string) domain.Attributes {
	word := groups[2]
	switch {
	case has(appearanceWords, word):
		return domain.Attributes{Appearance: word}
	case has(personalityWords, word):
		return domain.Attributes{Personality: word}
	default:
		return domain.Attributes{Description: collapseSpace(trimToWords(groups[0]))}
	}
}

func extractActionSubjects(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueActionSubject,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.6),
		rules:        []patternRule{{pattern: actionSubject, nameGroup: 1}},
		accept:       isCandidateName,
	})
}

func extractRelationshipMentions(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueRelationshipMention,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.55),
		rules: []patternRule{
			{pattern: possessiveKinship, nameGroup: 1},
			{
				pattern:   appositiveKinship,
				nameGroup: 2,
				attrs: func(groups []string) domain.Attributes {
					return domain.Attributes{Description: groups[1]}
				},
			},
		},
		accept: isCandidateName,
	})
}

func extractHonorifics(text string) []domain.CandidateEntity {
	return collectCandidates(text, candidateSpec{
		source:       TechniqueTitleHonorific,
		kind:         domain.KindCharacter,
		minFrequency: 2,
		confidence:   fixedConfidence(0.75),
		rules: []patternRule{{
			pattern:   honorificName,
			nameGroup: 3,
			attrs: func(groups []string) domain.Attributes {
				return domain.Attributes{Title: groups[1] + groups[2]}
			},
		}},
		accept: isCandidateName,
	})
}
