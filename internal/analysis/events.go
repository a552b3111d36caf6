package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	baseImportance    = 4
	importancePerHit  = 2
	titleMentionBonus = 2
	minImportance     = 1
	maxImportance     = 10
	// subjectVerbGap bounds how far into a sentence a verb may follow a
	// character's name and still count as that character acting.
	subjectVerbGap = 40
)

var (
	monthNames   = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`
	weekdayNames = `(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`

	absoluteTime = regexp.MustCompile(`(?i)\b(?:` +
		`(?:in|by|during|since|until)\s+(?:the\s+year\s+)?\d{3,4}(?:\s*(?:AD|BC|BCE|CE)\b)?` +
		`|the\s+year\s+\d{1,4}` +
		`|` + monthNames + `\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `(?:,?\s+\d{4})?` +
		`|(?:spring|summer|autumn|fall|winter)\s+of\s+\d{3,4}` +
		`|on\s+` + weekdayNames +
		`|at\s+(?:dawn|dusk|midnight|noon|sunrise|sunset|daybreak)` +
		`)\b`)

	relativeTime = regexp.MustCompile(`(?i)\b` + alternation([]string{
		"later", "meanwhile", "afterwards", "afterward", "the next day",
		"the following day", "the next morning", "next morning", "that night",
		"that evening", "years later", "days later", "hours later",
		"moments later", "soon after", "shortly after", "earlier",
		"before that", "previously", "the day before", "long ago",
		"the next week", "in the meantime", "eventually",
	}) + `\b`)

	stateChangePattern     = regexp.MustCompile(`(?i)\b` + alternation(stateChangeVerbs) + `\b`)
	genericEventPattern    = regexp.MustCompile(`(?i)\b` + alternation(genericEventVerbs) + `\b`)
	timeResolutionBaseline = time.Unix(0, 0).UTC()
)

// EventExtractor walks segments in document order and emits sequenced
// events. It is safe to reuse across runs but not for concurrent use.
type EventExtractor struct {
	newID  func() uuid.UUID
	parser *when.Parser
}

func NewEventExtractor(newID func() uuid.UUID) *EventExtractor {
	if newID == nil {
		newID = uuid.New
	}
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &EventExtractor{newID: newID, parser: parser}
}

// timeline is the temporal state carried from one segment to the next.
type timeline struct {
	current  string
	resolved *time.Time
	offset   string
	ref      domain.TimeReference
}

func (t *timeline) observe(x *EventExtractor, text string) {
	if m := absoluteTime.FindString(text); m != "" {
		t.current = collapseSpace(m)
		t.resolved = x.resolve(t.current)
		t.offset = ""
		t.ref = domain.TimeAbsolute
	}
	if m := relativeTime.FindString(text); m != "" {
		t.offset = strings.ToLower(collapseSpace(m))
		t.ref = domain.TimeRelative
	}
}

// resolve turns a time expression into an instant relative to a fixed
// baseline so that results are reproducible. Unresolvable expressions
// return nil.
func (x *EventExtractor) resolve(expr string) *time.Time {
	r, err := x.parser.Parse(expr, timeResolutionBaseline)
	if err != nil || r == nil {
		return nil
	}
	t := r.Time.UTC()
	return &t
}

// Extract converts segments into events. Characters and locations are the
// already-filtered entities of the same run.
func (x *EventExtractor) Extract(segments []Segment, characters []domain.Character, locations []domain.Location) []domain.Event {
	events := make([]domain.Event, 0)
	state := timeline{ref: domain.TimeAbsolute}
	matchers := newCharacterMatchers(characters)

	for _, seg := range segments {
		if seg.Kind == SegmentSceneBreak {
			continue
		}
		state.observe(x, seg.Text)

		if seg.Kind != SegmentHeading && !isEventParagraph(seg.Text, matchers) {
			continue
		}

		title := seg.Text
		if seg.Kind == SegmentParagraph {
			title = firstSentence(seg.Text)
		}
		title = truncateRunes(title, titleMaxRunes)

		var resolved *time.Time
		if state.resolved != nil {
			t := *state.resolved
			resolved = &t
		}

		events = append(events, domain.Event{
			ID:                 x.newID(),
			Title:              title,
			Description:        seg.Text,
			SequenceNumber:     (len(events) + 1) * domain.SequenceGap,
			ChronologicalTime:  state.current,
			ResolvedTime:       resolved,
			RelativeTimeOffset: state.offset,
			TimeReference:      state.ref,
			InvolvedCharacters: involvedCharacters(seg.Text, title, matchers),
			LocationIDs:        involvedLocations(seg.Text, locations),
			SegmentIndex:       seg.Index,
		})
	}
	return events
}

// characterMatcher holds the per-character patterns for one Extract call.
// actor matches the name followed, within the same sentence, by an action
// verb.
type characterMatcher struct {
	character domain.Character
	actor     *regexp.Regexp
	speaker   *regexp.Regexp
}

func newCharacterMatchers(characters []domain.Character) []characterMatcher {
	speech := alternation(speechVerbs)
	action := alternation(actionVerbs)
	gap := strconv.Itoa(subjectVerbGap - 1)

	matchers := make([]characterMatcher, 0, len(characters))
	for _, c := range characters {
		quoted := regexp.QuoteMeta(c.Name)
		actor := regexp.MustCompile(`(?i)` + wordStart + quoted +
			`[^\p{L}\p{N}_.!?][^.!?]{0,` + gap + `}?\b` + action + `\b`)
		speaker := regexp.MustCompile(`(?i)(?:` + wordStart + quoted + `\s+` + speech + `\b` +
			`|\b` + speech + `\s+` + quoted + wordEnd + `)`)
		matchers = append(matchers, characterMatcher{character: c, actor: actor, speaker: speaker})
	}
	return matchers
}

func isEventParagraph(text string, matchers []characterMatcher) bool {
	for _, m := range matchers {
		if m.actor.MatchString(text) {
			return true
		}
	}
	return stateChangePattern.MatchString(text) || genericEventPattern.MatchString(text)
}

func involvedCharacters(text, title string, matchers []characterMatcher) []domain.InvolvedCharacter {
	involved := make([]domain.InvolvedCharacter, 0)
	for _, m := range matchers {
		c := m.character
		n := countMentions(text, c.Name)
		if n == 0 {
			continue
		}
		importance := min(maxImportance, baseImportance+importancePerHit*n)
		if mentions(title, c.Name) {
			importance += titleMentionBonus
		}

		experience := domain.ExperiencePresent
		switch {
		case m.speaker.MatchString(text):
			experience = domain.ExperienceSpeaker
		case m.actor.MatchString(text):
			experience = domain.ExperienceActor
		}

		involved = append(involved, domain.InvolvedCharacter{
			CharacterID:    c.ID,
			Importance:     clampInt(importance, minImportance, maxImportance),
			ExperienceType: experience,
		})
	}
	return involved
}

func involvedLocations(text string, locations []domain.Location) []uuid.UUID {
	ids := make([]uuid.UUID, 0)
	for _, l := range locations {
		if mentions(text, l.Name) {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
