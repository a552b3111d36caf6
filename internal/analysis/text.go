// Package analysis turns narrative prose into a structured model: entities,
// relationships, sequenced events, event dependencies and plotlines.
//
// Every stage is a pure function over its inputs. Stages never mutate what
// an earlier stage produced, so a result can be treated as an immutable
// snapshot once the pipeline returns.
package analysis

import (
	"regexp"
	"strings"
)

type SegmentKind string

const (
	SegmentParagraph  SegmentKind = "paragraph"
	SegmentSceneBreak SegmentKind = "scene_break"
	SegmentHeading    SegmentKind = "heading"
)

// Segment is one typed block of normalized text.
type Segment struct {
	Index  int         `json:"index"`
	Kind   SegmentKind `json:"kind"`
	Text   string      `json:"text"`
	Offset int         `json:"offset"`
}

const maxHeadingLength = 80

var numberWords = []string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen",
	"eighteen", "nineteen", "twenty",
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	blockSeparator  = regexp.MustCompile(`\n[ \t]*\n`)
	sceneBreakLine  = regexp.MustCompile(`^(?:(?:\*\s*){3,}|-{3,}|~{3,}|#{1,3}|(?:#\s*){3,})$`)

	// A chapter, part or book heading needs a numbering token after the
	// keyword, so "Part of the crew ran" stays a paragraph.
	headingLine = regexp.MustCompile(`^(?:#{1,6}\s+\S.*` +
		`|(?i:chapter|part|book)\s+(?:\d+|[IVXLCDM]+|(?i:` + strings.Join(numberWords, "|") + `)|\p{Lu}[\p{L}'\-]*)(?:[^\p{L}\p{N}].*)?` +
		`|(?i:prologue|epilogue|interlude)\b.*)$`)

	headingMarker = regexp.MustCompile(`^#{1,6}\s+`)
)

// Normalize cleans whitespace: CRLF becomes LF, runs of horizontal space
// collapse to one space, line ends are trimmed and more than one blank line
// collapses to a single blank line.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SegmentText normalizes text and splits it into paragraph, scene-break and
// heading blocks in document order.
func SegmentText(text string) []Segment {
	normalized := Normalize(text)
	if normalized == "" {
		return []Segment{}
	}

	segments := make([]Segment, 0)
	offset := 0
	for _, loc := range append(blockSeparator.FindAllStringIndex(normalized, -1), []int{len(normalized), len(normalized)}) {
		block := strings.TrimSpace(normalized[offset:loc[0]])
		start := offset
		offset = loc[1]
		if block == "" {
			continue
		}

		kind, content := classifyBlock(block)
		segments = append(segments, Segment{
			Index:  len(segments),
			Kind:   kind,
			Text:   content,
			Offset: start,
		})
	}
	return segments
}

func classifyBlock(block string) (SegmentKind, string) {
	if sceneBreakLine.MatchString(block) {
		return SegmentSceneBreak, block
	}
	if !strings.Contains(block, "\n") && len(block) <= maxHeadingLength &&
		!strings.ContainsAny(block[len(block)-1:], ".!?") && headingLine.MatchString(block) {
		return SegmentHeading, headingMarker.ReplaceAllString(block, "")
	}
	return SegmentParagraph, strings.ReplaceAll(block, "\n", " ")
}
