package mapreduce

import (
	"fmt"
	"sort"
	"strings"
)

// isValidKeyword filters tokens left broken by crawling: unmatched
// brackets or quotes and a trailing ':' or '='. Technical terms such as
// c++ or node.js are kept.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		if strings.Contains(word, pair[0]) != strings.Contains(word, pair[1]) {
			return false
		}
	}
	return strings.Count(word, "\"")%2 == 0 && strings.Count(word, "'")%2 == 0
}

// Keyword is a word and how often it occurred.
type Keyword struct {
	Word  string `yaml:"word" json:"word"`
	Count int    `yaml:"count" json:"count"`
}

// TopN returns the n most frequent valid keywords, highest count first and
// alphabetical among equal counts.
func TopN(wordCounts map[string]int, n int) []Keyword {
	ss := make([]Keyword, 0, len(wordCounts))
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, Keyword{k, v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	if n >= 0 && len(ss) > n {
		ss = ss[:n]
	}
	return ss
}

// TopKeywords formats TopN as "word:count" strings (e.g. "golang:153").
func TopKeywords(wordCounts map[string]int, n int) []string {
	top := TopN(wordCounts, n)
	keywords := make([]string, len(top))
	for i, kw := range top {
		keywords[i] = fmt.Sprintf("%s:%d", kw.Word, kw.Count)
	}
	return keywords
}
