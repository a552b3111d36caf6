package analysis

import (
	"regexp"
	"unicode/utf8"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
)

const (
	// windowRadius is how far, in bytes, a co-occurrence window reaches on
	// either side of the first entity's mention.
	windowRadius = 150
	// minDescriptionLength is exclusive.
	minDescriptionLength = 40
	maxIntensity         = 10
)

type categoryRule struct {
	category string
	pattern  *regexp.Regexp
}

func keywordRule(category string, words ...string) categoryRule {
	return categoryRule{
		category: category,
		pattern:  regexp.MustCompile(`(?i)\b` + alternation(words) + `\b`),
	}
}

// Rules are evaluated in order and the last one that matches wins.
var (
	characterRules = []categoryRule{
		keywordRule(domain.RelFamily, "mother", "father", "brother", "brothers", "sister", "sisters",
			"son", "daughter", "wife", "husband", "uncle", "aunt", "cousin", "family", "sibling",
			"siblings", "parent", "parents", "grandmother", "grandfather", "niece", "nephew", "twin"),
		keywordRule(domain.RelFriend, "friend", "friends", "friendship", "ally", "allies", "companion",
			"companions", "comrade", "trusted", "helped", "together"),
		keywordRule(domain.RelEnemy, "enemy", "enemies", "rival", "rivals", "foe", "foes", "fought",
			"hated", "betrayed", "attacked", "against", "battled", "despised"),
		keywordRule(domain.RelRomantic, "love", "loved", "loves", "lover", "kissed", "married",
			"beloved", "romance", "embraced", "courted", "darling"),
		keywordRule(domain.RelProfessional, "master", "apprentice", "servant", "employer", "colleague",
			"partner", "mentor", "student", "teacher", "worked", "hired", "commanded", "served"),
	}
	ownershipRules = []categoryRule{
		keywordRule(domain.RelOwned, "owned", "owns", "had", "has", "held", "carried", "possessed",
			"kept", "belonged", "inherited"),
		keywordRule(domain.RelCreated, "made", "forged", "crafted", "created", "built", "wrote",
			"wove", "carved", "enchanted", "invented"),
		keywordRule(domain.RelDesires, "wanted", "desired", "sought", "coveted", "longed", "searched",
			"hunted", "craved", "needed"),
		keywordRule(domain.RelUses, "used", "uses", "wielded", "opened", "read", "drew", "swung",
			"wore", "lit", "unlocked", "raised"),
	}
	placementRules = []categoryRule{
		keywordRule(domain.RelStored, "stored", "kept", "locked", "placed", "put", "left", "lay",
			"rested", "displayed"),
		keywordRule(domain.RelOrigin, "came from", "forged in", "made in", "found in",
			"originated", "brought from"),
		keywordRule(domain.RelHidden, "hidden", "hid", "buried", "concealed", "secret", "lost"),
	}
)

// RelationshipDetector finds pairwise relationships from co-occurrence
// windows in the text.
type RelationshipDetector struct {
	newID func() uuid.UUID
}

func NewRelationshipDetector(newID func() uuid.UUID) *RelationshipDetector {
	if newID == nil {
		newID = uuid.New
	}
	return &RelationshipDetector{newID: newID}
}

// Detect returns character pairs first, then character-object and
// object-location relationships, each in input order.
func (d *RelationshipDetector) Detect(text string, characters []domain.Character, objects []domain.Object, locations []domain.Location) []domain.Relationship {
	rels := make([]domain.Relationship, 0)

	for i := 0; i < len(characters); i++ {
		for j := i + 1; j < len(characters); j++ {
			a, b := characters[i], characters[j]
			windows := cooccurrenceWindows(text, a.Name, b.Name)
			if len(windows) == 0 {
				continue
			}
			category := classify(windows, characterRules, domain.RelAcquaintance)
			rels = append(rels, domain.Relationship{
				ID:               d.newID(),
				SubjectID:        a.ID,
				ObjectID:         b.ID,
				Kind:             domain.RelationshipCharacterCharacter,
				RelationshipType: category,
				Description:      describeWindows(windows),
				Intensity:        domain.RelationshipIntensity[category],
				InteractionCount: len(windows),
			})
		}
	}

	for _, c := range characters {
		for _, o := range objects {
			if rel, ok := d.directed(text, c.Name, o.Name, c.ID, o.ID, domain.RelationshipCharacterObject, ownershipRules, domain.RelAssociated); ok {
				rels = append(rels, rel)
			}
		}
	}

	for _, o := range objects {
		for _, l := range locations {
			if rel, ok := d.directed(text, o.Name, l.Name, o.ID, l.ID, domain.RelationshipObjectLocation, placementRules, domain.RelLocated); ok {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}

func (d *RelationshipDetector) directed(text, subject, object string, subjectID, objectID uuid.UUID, kind domain.RelationshipKind, rules []categoryRule, fallback string) (domain.Relationship, bool) {
	windows := cooccurrenceWindows(text, subject, object)
	if len(windows) == 0 {
		return domain.Relationship{}, false
	}
	return domain.Relationship{
		ID:               d.newID(),
		SubjectID:        subjectID,
		ObjectID:         objectID,
		Kind:             kind,
		RelationshipType: classify(windows, rules, fallback),
		Description:      describeWindows(windows),
		Intensity:        clampInt(len(windows), 1, maxIntensity),
		InteractionCount: len(windows),
		Directed:         true,
	}, true
}

// cooccurrenceWindows returns, for each mention of a, the surrounding window
// when a whole mention of b also lies inside it. Mentions of b are located
// in the full text so a word cut at the window edge never counts.
func cooccurrenceWindows(text, a, b string) []string {
	if a == "" || b == "" || a == b {
		return nil
	}
	bs := occurrences(text, b)
	if len(bs) == 0 {
		return nil
	}
	var windows []string
	for _, loc := range occurrences(text, a) {
		lo, hi := windowBounds(text, loc[0], loc[1], windowRadius)
		for _, m := range bs {
			if m[0] >= lo && m[1] <= hi {
				windows = append(windows, text[lo:hi])
				break
			}
		}
	}
	return windows
}

// windowBounds widens [start, end) by radius bytes on each side without
// splitting a rune.
func windowBounds(text string, start, end, radius int) (int, int) {
	lo := max(0, start-radius)
	hi := min(len(text), end+radius)
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo++
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}
	return lo, hi
}

// classify scans windows in order and every rule in order; the last rule to
// match anything decides the category.
func classify(windows []string, rules []categoryRule, fallback string) string {
	category := fallback
	for _, w := range windows {
		for _, r := range rules {
			if r.pattern.MatchString(w) {
				category = r.category
			}
		}
	}
	return category
}

// describeWindows picks the shortest window longer than the minimum
// description length, falling back to the first window.
func describeWindows(windows []string) string {
	best := ""
	for _, w := range windows {
		w = collapseSpace(w)
		if len(w) <= minDescriptionLength {
			continue
		}
		if best == "" || len(w) < len(best) {
			best = w
		}
	}
	if best == "" && len(windows) > 0 {
		best = collapseSpace(windows[0])
	}
	return best
}
