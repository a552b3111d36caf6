package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces and tabs", "Hello \t\t world", "Hello world"},
		{"converts CRLF", "one\r\ntwo", "one\ntwo"},
		{"collapses blank lines", "  Hello\t\tworld  \r\n\r\n\r\n\r\nNext   line ", "Hello world\n\nNext line"},
		{"trims line ends", "a   \n   b", "a\nb"},
		{"empty", "   \n\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSegmentText(t *testing.T) {
	text := "Chapter 1\n\nAlice walked home.\n\n* * *\n\nThe end came."

	segments := SegmentText(text)
	require.Len(t, segments, 4)

	assert.Equal(t, SegmentHeading, segments[0].Kind)
	assert.Equal(t, "Chapter 1", segments[0].Text)
	assert.Equal(t, 0, segments[0].Offset)

	assert.Equal(t, SegmentParagraph, segments[1].Kind)
	assert.Equal(t, "Alice walked home.", segments[1].Text)
	assert.Equal(t, 11, segments[1].Offset)

	assert.Equal(t, SegmentSceneBreak, segments[2].Kind)
	assert.Equal(t, SegmentParagraph, segments[3].Kind)

	for i, s := range segments {
		assert.Equal(t, i, s.Index)
	}
}

func TestSegmentText_Classification(t *testing.T) {
	tests := []struct {
		name  string
		block string
		kind  SegmentKind
		text  string
	}{
		{"markdown heading", "## The Long Night", SegmentHeading, "The Long Night"},
		{"prologue", "Prologue", SegmentHeading, "Prologue"},
		{"heading-like sentence", "Chapter one ended badly.", SegmentParagraph, "Chapter one ended badly."},
		{"numbered chapter", "Chapter 12: The Reckoning", SegmentHeading, "Chapter 12: The Reckoning"},
		{"roman part", "Part IV", SegmentHeading, "Part IV"},
		{"spelled chapter", "chapter seventeen", SegmentHeading, "chapter seventeen"},
		{"titled book", "Book Two - Exile", SegmentHeading, "Book Two - Exile"},
		{"part as a noun", "Part of the crew ran toward Alice", SegmentParagraph, "Part of the crew ran toward Alice"},
		{"book as a noun", "Book after book fell from the shelves", SegmentParagraph, "Book after book fell from the shelves"},
		{"dashes", "---", SegmentSceneBreak, "---"},
		{"tildes", "~~~", SegmentSceneBreak, "~~~"},
		{"hash", "#", SegmentSceneBreak, "#"},
		{"wrapped paragraph", "line one\nline two", SegmentParagraph, "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := SegmentText(tt.block)
			require.Len(t, segments, 1)
			assert.Equal(t, tt.kind, segments[0].Kind)
			assert.Equal(t, tt.text, segments[0].Text)
		})
	}
}

func TestSegmentText_Empty(t *testing.T) {
	segments := SegmentText(" \n\n \t")
	assert.NotNil(t, segments)
	assert.Empty(t, segments)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 60))

	long := strings.Repeat("é", 70)
	got := truncateRunes(long, 60)
	assert.Equal(t, 63, len([]rune(got)))
	assert.Contains(t, got, titleEllipsis)
}

func TestOverlapRatio(t *testing.T) {
	a := rareWords("The frozen river swallowed lanterns whole")
	b := rareWords("Mirabel crossed the frozen river carrying lanterns")

	assert.InDelta(t, 0.6, overlapRatio(a, b), 1e-9)
	assert.Zero(t, overlapRatio(a, map[string]struct{}{}))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Alice said hello to Bob.", firstSentence("Alice said hello to Bob. Bob smiled."))
	assert.Equal(t, "No terminator here", firstSentence("No terminator here"))
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name string
		text string
		word string
		want int
	}{
		{"accented name", "Zoë met Zoëlle. Later Zoë left.", "Zoë", 2},
		{"no prefix of a longer word", "Bobby ran.", "Bob", 0},
		{"adjacent repeats", "Bob Bob Bob", "Bob", 3},
		{"punctuated name", "Dr. Hale and Dr.Hale", "Dr.", 2},
		{"empty name", "anything", "", 0},
		{"multi-word name", "the Silver River, the Silver Rivers", "Silver River", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countOccurrences(tt.text, tt.word))
		})
	}

	assert.Equal(t, [][]int{{0, 4}, {24, 28}}, occurrences("Zoë met Zoëlle. Later Zoë left.", "Zoë"))
}
