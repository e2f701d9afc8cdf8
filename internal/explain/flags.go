package explain

import (
	"strings"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

type flag struct {
	name     string
	matches  func(text string) bool
	sentence string
	// organ flags are dropped when a dominant organ phrase was already given
	organ bool
}

var flags = []flag{
	{name: "pregnancy", matches: contains("pregnancy"), sentence: "This medication is generally not recommended during pregnancy."},
	{name: "age", matches: hasWord("age"), sentence: "This medication may not be appropriate for the given age."},
	{name: "duplicate", matches: contains("duplicate"), sentence: "The same active ingredient appears more than once, which increases risk."},
	{name: "nsaid", matches: contains("nsaid"), sentence: "Combining multiple anti-inflammatory medicines increases safety risk."},
	{name: "dose", matches: contains("dose"), sentence: "The total dose exceeds recommended limits."},
	{name: "liver", matches: contains("liver"), sentence: "There is significant stress on the liver.", organ: true},
	{name: "kidney", matches: contains("kidney"), sentence: "Kidney strain is contributing to the overall risk.", organ: true},
}

// conflictSentences adds at most one sentence per conflict, taking the first
// flag in precedence order that matches and has not been used yet.
func conflictSentences(conflicts []domain.Conflict, dominantValue float64) []string {
	var (
		out  []string
		used = make(map[string]bool)
	)
	for _, c := range conflicts {
		text := strings.ToLower(c.Risk)
		for _, f := range flags {
			if used[f.name] || !f.matches(text) {
				continue
			}
			if f.organ && dominantValue >= dominantOrganThreshold {
				continue
			}
			out = append(out, f.sentence)
			used[f.name] = true
			break
		}
	}
	return out
}

func contains(keyword string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, keyword)
	}
}

// hasWord matches whole words only, so "damage" does not count as "age".
func hasWord(word string) func(string) bool {
	return func(text string) bool {
		for _, field := range strings.FieldsFunc(text, func(r rune) bool {
			return !('a' <= r && r <= 'z')
		}) {
			if field == word {
				return true
			}
		}
		return false
	}
}
