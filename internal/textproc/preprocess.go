package textproc

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultStopwords is the stop-word list used when no artifact-frozen
// list is available (the dashboard's word frequencies use it).
var DefaultStopwords = []string{
	"a", "an", "and", "app", "are", "as", "at", "be", "but", "by", "for",
	"from", "has", "have", "i", "in", "is", "it", "its", "me", "my", "of",
	"on", "or", "so", "that", "the", "this", "to", "too", "very", "was",
	"we", "were", "will", "with", "you", "your",
}

// Pipeline turns raw review text into a fixed-length feature vector. It
// tokenizes, removes stop-words, hashes tokens into a fixed-size bag of
// words and applies log term weighting, in the same sequence used at
// training time. The dimension and stop-word list come from the model
// artifact and must not change independently of it.
type Pipeline struct {
	dim       int
	stopwords map[string]struct{}
}

// New creates a preprocessing pipeline with the given feature dimension
// and stop-word list.
func New(dim int, stopwords []string) *Pipeline {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}

	return &Pipeline{
		dim:       dim,
		stopwords: set,
	}
}

// Dim returns the feature vector dimension.
func (p *Pipeline) Dim() int {
	return p.dim
}

// Tokenize lowercases the text and splits it on any non-letter,
// non-digit rune, dropping stop-words and single-rune fragments. Emoji
// and punctuation act as separators.
func (p *Pipeline) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, ok := p.stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

// Vectorize encodes text as a hashed bag-of-words vector of exactly Dim
// entries with log-scaled term counts. Empty or all-stop-word text
// yields the zero vector; the length is the same for every input.
func (p *Pipeline) Vectorize(text string) []float64 {
	vec := make([]float64, p.dim)

	counts := make(map[uint32]int)
	for _, token := range p.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		counts[h.Sum32()%uint32(p.dim)]++
	}

	for idx, count := range counts {
		vec[idx] = 1 + math.Log(float64(count))
	}

	return vec
}

// IsZero reports whether the vector carries no features, which happens
// for empty or all-stop-word text.
func IsZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
