package search

import "strings"

// stopWords are dropped when extracting key terms from a subject for
// similarity queries.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "must": {},
	"help": {}, "issue": {}, "problem": {}, "question": {},
	"request": {}, "ticket": {}, "support": {},
}

const punctuation = `.,!?;:"()[]{}`

// ExtractSearchTerms reduces a subject line to its first five
// meaningful words for use in similarity queries.
func ExtractSearchTerms(subject string) string {
	if subject == "" {
		return ""
	}
	var keep []string
	for _, word := range strings.Fields(strings.ToLower(subject)) {
		word = strings.Trim(word, punctuation)
		if len(word) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		keep = append(keep, word)
		if len(keep) == 5 {
			break
		}
	}
	return strings.Join(keep, " ")
}

// Similarity scores how alike two subjects are in [0,1]. The score is
// the Jaccard similarity of their word sets, boosted by 0.2 (capped at
// 1.0) when one subject contains the other verbatim.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	left := strings.ToLower(a)
	right := strings.ToLower(b)
	if left == right {
		return 1
	}

	leftWords := wordSet(left)
	rightWords := wordSet(right)
	if len(leftWords) == 0 || len(rightWords) == 0 {
		return 0
	}

	intersection := 0
	for word := range leftWords {
		if _, ok := rightWords[word]; ok {
			intersection++
		}
	}
	union := len(leftWords) + len(rightWords) - intersection
	if union == 0 {
		return 0
	}
	score := float64(intersection) / float64(union)

	if strings.Contains(left, right) || strings.Contains(right, left) {
		score += 0.2
		if score > 1 {
			score = 1
		}
	}
	return score
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		set[word] = struct{}{}
	}
	return set
}
