package classifier

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultHashBits   = 16
	DefaultWordNgrams = 2
	DefaultCharNgrams = 3

	minHashBits = 4
	maxHashBits = 24
)

// Featurizer turns free text into a hashed bag of word and character n-grams.
// The same parameters must be used at training and prediction time, so they are
// serialized with the model.
type Featurizer struct {
	HashBits   int `json:"hashBits"`
	WordNgrams int `json:"wordNgrams"`
	CharNgrams int `json:"charNgrams"`
}

// SparseVector is an L2-normalised feature vector with indices in ascending order
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NewFeaturizer creates a featurizer hashing into 2^hashBits buckets
func NewFeaturizer(hashBits int) *Featurizer {
	if hashBits < minHashBits || hashBits > maxHashBits {
		hashBits = DefaultHashBits
	}
	return &Featurizer{
		HashBits:   hashBits,
		WordNgrams: DefaultWordNgrams,
		CharNgrams: DefaultCharNgrams,
	}
}

// Dimension returns the fixed length of the feature space
func (f *Featurizer) Dimension() int {
	return 1 << f.HashBits
}

// Normalize folds case and strips diacritics
func (f *Featurizer) Normalize(text string) string {
	// Transformers carry state, so each call gets its own chain
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return cases.Fold().String(stripped)
}

// Tokenize splits normalised text on anything that is not a letter or a digit
func (f *Featurizer) Tokenize(text string) []string {
	return strings.FieldsFunc(f.Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Featurize maps text to its feature vector. Empty text yields an empty vector.
func (f *Featurizer) Featurize(text string) SparseVector {
	tokens := f.Tokenize(text)
	counts := make(map[int]float64)

	for n := 1; n <= f.WordNgrams; n++ {
		prefix := "w" + strconv.Itoa(n) + ":"
		for i := 0; i+n <= len(tokens); i++ {
			counts[f.bucket(prefix+strings.Join(tokens[i:i+n], " "))]++
		}
	}

	if f.CharNgrams > 0 {
		for _, token := range tokens {
			padded := []rune("<" + token + ">")
			if len(padded) <= f.CharNgrams {
				counts[f.bucket("c:"+string(padded))]++
				continue
			}
			for i := 0; i+f.CharNgrams <= len(padded); i++ {
				counts[f.bucket("c:"+string(padded[i:i+f.CharNgrams]))]++
			}
		}
	}

	return normalizeCounts(counts)
}

func (f *Featurizer) bucket(key string) int {
	return int(xxhash.Sum64String(key) & uint64(f.Dimension()-1))
}

func normalizeCounts(counts map[int]float64) SparseVector {
	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	if len(counts) == 0 {
		return vec
	}

	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	// summed in index order, independent of map iteration
	var sumSquares float64
	for _, idx := range vec.Indices {
		sumSquares += counts[idx] * counts[idx]
	}
	length := math.Sqrt(sumSquares)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]/length)
	}
	return vec
}
