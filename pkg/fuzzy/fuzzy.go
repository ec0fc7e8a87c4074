// Package fuzzy matches free-form titles written by a language model against
// stored task titles.
package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance returns the number of single-rune insertions,
// deletions or substitutions that turn a into b, after normalization.
func LevenshteinDistance(a, b string) int {
	r1 := []rune(Normalize(a))
	r2 := []rune(Normalize(b))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Similarity scores two titles in [0, 1]; 1 means equal after normalization.
// A title fully contained in the other scores at least 0.85.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	longest := max(len([]rune(na)), len([]rune(nb)))
	score := 1 - float64(LevenshteinDistance(na, nb))/float64(longest)
	if containsWords(na, nb) || containsWords(nb, na) {
		score = max(score, 0.85)
	}
	return score
}

// BestMatch returns the index of the candidate most similar to query, or
// false when no candidate reaches minScore. Earlier candidates win ties.
func BestMatch(query string, candidates []string, minScore float64) (int, bool) {
	best, bestScore := -1, minScore
	for i, c := range candidates {
		score := Similarity(query, c)
		if score > bestScore || (score == bestScore && best == -1) {
			best, bestScore = i, score
		}
	}
	return best, best != -1
}

// Normalize lowercases s, strips accents and punctuation, and collapses
// whitespace.
func Normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(removeAccents(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// containsWords reports whether every word of needle appears, in order and
// as whole words, inside haystack.
func containsWords(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// removeAccents folds common Latin diacritics to their base letter.
func removeAccents(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'á', 'à', 'â', 'ä', 'ã', 'å', 'Á', 'À', 'Â', 'Ä':
			sb.WriteRune('a')
		case 'é', 'è', 'ê', 'ë', 'É', 'È', 'Ê':
			sb.WriteRune('e')
		case 'í', 'ì', 'î', 'ï':
			sb.WriteRune('i')
		case 'ó', 'ò', 'ô', 'ö', 'õ', 'ø', 'Ó', 'Ö':
			sb.WriteRune('o')
		case 'ú', 'ù', 'û', 'ü', 'Ü':
			sb.WriteRune('u')
		case 'ç':
			sb.WriteRune('c')
		case 'ñ':
			sb.WriteRune('n')
		case 'ß':
			sb.WriteString("ss")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
