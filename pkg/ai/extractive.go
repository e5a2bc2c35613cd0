package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// englishTokenizer loads the Punkt training data once
var englishTokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// ExtractiveService summarizes locally by ranking sentences on word frequency.
// It needs no network access and is the default provider.
type ExtractiveService struct {
	sentences     int
	maxInputChars int
}

// NewExtractiveService creates an extractive summarizer that keeps the top n sentences
func NewExtractiveService(n, maxInputChars int) *ExtractiveService {
	if n <= 0 {
		n = 5
	}
	return &ExtractiveService{sentences: n, maxInputChars: maxInputChars}
}

func (e *ExtractiveService) Name() string { return string(ProviderExtractive) }

// Summarize returns the highest scoring sentences in their original order
func (e *ExtractiveService) Summarize(ctx context.Context, title, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyInput
	}
	if e.maxInputChars > 0 {
		runes := []rune(text)
		if len(runes) > e.maxInputChars {
			text = string(runes[:e.maxInputChars])
		}
	}

	sents, err := splitSentences(text)
	if err != nil {
		return "", err
	}
	if len(sents) <= e.sentences {
		return strings.Join(sents, " "), nil
	}

	freq := wordFrequencies(text)
	// Title words count double
	for _, w := range tokenize(title) {
		if _, ok := freq[w]; ok {
			freq[w] *= 2
		}
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(sents))
	for i, s := range sents {
		tokens := tokenize(s)
		if len(tokens) == 0 {
			continue
		}
		total := 0.0
		for _, w := range tokens {
			total += freq[w]
		}
		// Dampen very long sentences so they don't win on length alone
		ranked = append(ranked, scored{index: i, score: total / float64(len(tokens)+5)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > e.sentences {
		ranked = ranked[:e.sentences]
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].index < ranked[j].index
	})

	picked := make([]string, len(ranked))
	for i, r := range ranked {
		picked[i] = sents[r.index]
	}
	return strings.Join(picked, " "), nil
}

// splitSentences segments text with the Punkt English model, so abbreviations
// and decimals do not end a sentence
func splitSentences(text string) ([]string, error) {
	tokenizer, err := englishTokenizer()
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}

	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// wordFrequencies returns stopword-free term frequencies scaled to [0,1]
func wordFrequencies(text string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, w := range tokenize(text) {
		counts[w]++
		if counts[w] > maxCount {
			maxCount = counts[w]
		}
	}

	freq := make(map[string]float64, len(counts))
	for w, c := range counts {
		freq[w] = float64(c) / float64(maxCount)
	}
	return freq
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`a about above after again against all am an and any are as at be because
		been before being below between both but by can could did do does doing down during each few
		for from further had has have having he her here hers herself him himself his how i if in into
		is it its itself just me more most my myself no nor not now of off on once only or other our
		ours ourselves out over own same she should so some such than that the their theirs them
		themselves then there these they this those through to too under until up very was we were
		what when where which while who whom why will with would you your yours yourself yourselves
		also may might must shall us many much however`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
