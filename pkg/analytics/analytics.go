package analytics

import (
	"sort"
	"strings"
	"unicode"
)

type Analytics struct{}

// stopwords are ignored in frequency analysis: English and Vietnamese
// function words plus the boilerplate every job posting repeats.
var stopwords = map[string]struct{}{}

func init() {
	for _, list := range [][]string{englishStopwords, vietnameseStopwords, postingNoise} {
		for _, w := range list {
			stopwords[w] = struct{}{}
		}
	}
}

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "could", "did", "do", "does",
	"doing", "down", "during", "each", "etc", "few", "for", "from", "further",
	"had", "has", "have", "having", "he", "her", "here", "hers", "him", "his",
	"how", "i", "if", "in", "into", "is", "it", "its", "just", "me", "more",
	"most", "must", "my", "no", "nor", "not", "now", "of", "off", "on", "once",
	"only", "or", "other", "our", "ours", "out", "over", "own", "per", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their",
	"them", "then", "there", "these", "they", "this", "those", "through", "to",
	"too", "under", "until", "up", "us", "very", "via", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "will",
	"with", "within", "without", "would", "you", "your", "yours",
}

// Vietnamese is written in syllables, so these are single-syllable tokens.
var vietnameseStopwords = []string{
	"và", "của", "các", "có", "cho", "với", "là", "được", "trong", "những",
	"một", "để", "tại", "theo", "về", "từ", "khi", "đến", "hoặc", "này",
	"như", "sẽ", "đã", "không", "cũng", "trên", "người", "việc", "nhiều",
	"thì", "mà", "vào", "ra", "nếu", "bạn", "chúng", "tôi", "hơn", "đó",
	"nào", "bị", "do", "nên", "rất", "lại", "còn", "vì", "thể",
}

var postingNoise = []string{
	"job", "jobs", "apply", "candidate", "candidates", "company", "position",
	"work", "working", "team", "year", "years", "experience",
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts the words of text, lowercased, with punctuation
// trimmed from both ends and stopwords removed.
func (a *Analytics) WordFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text))
	frequencies := make(map[string]int)

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})

		if _, exists := stopwords[word]; exists || word == "" {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

type wordCount struct {
	Word  string
	Count int
}

// TopNWords returns the n most frequent words of text. Ties are broken
// alphabetically.
func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	limit := min(n, len(counts))
	topN := make([]string, 0, max(limit, 0))
	for i := 0; i < limit; i++ {
		topN = append(topN, counts[i].Word)
	}
	return topN
}
