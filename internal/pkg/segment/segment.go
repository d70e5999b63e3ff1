package segment

import (
    "strings"

    "webcorpus/internal/pkg/metrics"
)

// Splits a paragraph into ordered sentences.
type Segmenter interface {
    Language() string
    Segment(text string) []string
}

// Splits a sentence into ordered word-level tokens.
type Tokenizer interface {
    Language() string
    Tokenize(text string) []string
}

var (
    segmenterRegistry = make(map[string]func() Segmenter)
    tokenizerRegistry = make(map[string]func() Tokenizer)
)

// Registers a segmentation strategy for an ISO 639-3 code. Registration
// happens once at process start; a duplicate registration is a
// configuration error and panics immediately.
func RegisterSegmenter(iso string, constructor func() Segmenter) {
    if _, exists := segmenterRegistry[iso]; exists {
        panic("segment: duplicate segmenter registration for " + iso)
    }
    segmenterRegistry[iso] = constructor
}

// Registers a tokenization strategy for an ISO 639-3 code.
func RegisterTokenizer(iso string, constructor func() Tokenizer) {
    if _, exists := tokenizerRegistry[iso]; exists {
        panic("segment: duplicate tokenizer registration for " + iso)
    }
    tokenizerRegistry[iso] = constructor
}

// Builds the segmentation strategy for a language. Languages with no
// specific entry get the generic multilingual punctuation strategy.
func NewSegmenter(iso string) Segmenter {
    if constructor, ok := segmenterRegistry[iso]; ok {
        return constructor()
    }
    return NewMultilingualSegmenter(iso)
}

// Builds the tokenization strategy for a language, defaulting to the
// unicode word tokenizer.
func NewTokenizer(iso string) Tokenizer {
    if constructor, ok := tokenizerRegistry[iso]; ok {
        return constructor()
    }
    return NewUnicodeTokenizer(iso)
}

// Reports whether a language has its own segmentation strategy rather
// than the generic fallback.
func Segmentable(iso string) bool {
    _, ok := segmenterRegistry[iso]
    return ok
}

// Reports whether a language has its own tokenization strategy.
func Tokenizable(iso string) bool {
    _, ok := tokenizerRegistry[iso]
    return ok
}

// Roman-script languages served by the punctuation-rule segmenter.
// Macedonian is Cyrillic but the same uppercase-based rules hold.
var romanLanguages = []string{
    "aze", "bos", "hat", "hau", "kin", "lin", "mkd",
    "nde", "orm", "sna", "som", "sqi", "swh", "uzb",
}

func init() {
    for _, iso := range romanLanguages {
        RegisterSegmenter(iso, func() Segmenter { return NewRomanSegmenter(iso) })
    }
    for _, iso := range []string{"amh", "tir"} {
        RegisterSegmenter(iso, func() Segmenter { return NewGeezSegmenter(iso) })
        RegisterTokenizer(iso, func() Tokenizer { return NewGeezTokenizer(iso) })
    }
}

// Single-slot per-worker strategy cache keyed by language. Strategies are
// rebuilt only when the language of the current document differs from the
// cached one, which amortizes construction across consecutive
// same-language documents but thrashes on alternating-language input.
// That tradeoff is accepted; workers never share a cache.
type Cache struct {
    iso       string
    segmenter Segmenter
    tokenizer Tokenizer
}

func (c *Cache) Strategies(iso string) (Segmenter, Tokenizer) {
    if c.iso != iso || c.segmenter == nil {
        c.segmenter = NewSegmenter(iso)
        c.tokenizer = NewTokenizer(iso)
        c.iso = iso
        metrics.StrategyRebuilds.Inc()
    }
    return c.segmenter, c.tokenizer
}

// Space-like characters that leak out of the site markup and confuse
// sentence splitting.
const (
    ethiopicWordspace     = '፡'
    zeroWidthSpace        = '\u200b'
    symbolForBackspace    = '␈'
    symbolForSpace        = '␠'
    ideographicHalfFill   = '〿'
    zeroWidthNoBreakSpace = '\ufeff'
)

var spaceCharReplacer = strings.NewReplacer(
    string(ethiopicWordspace), "",
    string(zeroWidthSpace), "",
    string(symbolForBackspace), "",
    string(symbolForSpace), "",
    string(ideographicHalfFill), "",
    string(zeroWidthNoBreakSpace), "",
)

// Like spaceCharReplacer but keeps the Ethiopic wordspace, which is
// meaningful in Ge'ez-script text.
var zeroWidthReplacer = strings.NewReplacer(
    string(zeroWidthSpace), "",
    string(symbolForBackspace), "",
    string(symbolForSpace), "",
    string(ideographicHalfFill), "",
    string(zeroWidthNoBreakSpace), "",
)
