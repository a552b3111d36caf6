package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	// titleMaxRunes bounds event titles before the ellipsis is appended.
	titleMaxRunes = 60
	titleEllipsis = "..."
	// rareWordMinLength is exclusive: only tokens longer than it count.
	rareWordMinLength = 4
)

// Word boundaries for patterns that touch names. Go's \b only knows ASCII
// word characters, so it splits "Zoë" after the "o". Both forms consume
// the neighbouring character.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{N}_]|$)`
)

var (
	tokenPattern = regexp.MustCompile(`[\p{L}']+`)
	sentenceEnd  = regexp.MustCompile(`[.!?]+["')\]]*(?:\s|$)`)
)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// countOccurrences counts literal, case-sensitive, whole-word occurrences.
func countOccurrences(text, name string) int {
	return len(occurrences(text, name))
}

// occurrences returns the [start, end) byte offsets of every whole-word
// occurrence of name. Edges of name that are not word characters need no
// boundary, so "Dr." matches before a space or a letter alike.
func occurrences(text, name string) [][]int {
	if name == "" {
		return nil
	}
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)

	var found [][]int
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], name)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(name)
		if wordBoundary(text, start, end, first, last) {
			found = append(found, []int{start, end})
			from = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return found
}

func wordBoundary(text string, start, end int, first, last rune) bool {
	if isWordRune(first) && start > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(prev) {
			return false
		}
	}
	if isWordRune(last) && end < len(text) {
		if next, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(next) {
			return false
		}
	}
	return true
}

// trimToWords strips leading and trailing characters that are not part of
// a word, such as the separators consumed by wordStart and wordEnd.
func trimToWords(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return !isWordRune(r) })
}

// fold applies Unicode case folding. A fresh caser is used per call since
// casers carry state and are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

// countMentions counts case-insensitive whole-word mentions of name.
func countMentions(text, name string) int {
	if name == "" {
		return 0
	}
	return countOccurrences(fold(text), fold(name))
}

func mentions(text, name string) bool {
	return countMentions(text, name) > 0
}

// containsFold reports whether text contains sub, ignoring case.
func containsFold(text, sub string) bool {
	return strings.Contains(fold(text), fold(sub))
}

// rareWords returns the set of lowercase tokens longer than four letters.
func rareWords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		tok = strings.Trim(fold(tok), "'")
		if utf8.RuneCountInString(tok) > rareWordMinLength {
			set[tok] = struct{}{}
		}
	}
	return set
}

// overlapRatio is the size of the intersection divided by the size of the
// smaller set. Empty sets never overlap.
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

func sortedWords(set map[string]struct{}) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// firstSentence returns text up to and including the first sentence
// terminator, or the whole text when there is none.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	loc := sentenceEnd.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimSpace(text[:loc[1]])
}

// truncateRunes cuts s to limit runes and appends the ellipsis marker when
// anything was removed.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + titleEllipsis
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
