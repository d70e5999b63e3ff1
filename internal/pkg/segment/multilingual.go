package segment

import (
    "strings"
    "unicode"
)

const multilingualMinLength = 10

// Terminal punctuation across the scripts we crawl that wants a
// whitespace (or end-of-text) follower before it counts as a boundary.
var spacedTerminals = map[rune]bool{
    '.': true, '!': true, '?': true,
    '։': true, // Armenian full stop
    '؟': true, // Arabic question mark
    '۔': true, // Urdu full stop
    '।': true, // Devanagari danda
    geezFullStop:     true,
    geezQuestionMark: true,
}

// Fullwidth CJK punctuation ends a sentence with no space after it.
var unspacedTerminals = map[rune]bool{
    '。': true, '！': true, '？': true,
}

// Generic fallback segmenter for languages with no dedicated strategy.
// It splits on terminal punctuation of any supported script, requiring a
// whitespace follower except for CJK fullwidth marks, and drops
// fragments shorter than the minimum length.
type MultilingualSegmenter struct {
    language  string
    minLength int
}

func NewMultilingualSegmenter(iso string) *MultilingualSegmenter {
    return &MultilingualSegmenter{language: iso, minLength: multilingualMinLength}
}

func (s *MultilingualSegmenter) Language() string { return s.language }

func (s *MultilingualSegmenter) Segment(text string) []string {
    runes := []rune(strings.TrimSpace(spaceCharReplacer.Replace(text)))
    var sentences []string

    start := 0
    i := 0
    for i < len(runes) {
        r := runes[i]
        spaced := spacedTerminals[r]
        unspaced := unspacedTerminals[r]
        if !spaced && !unspaced {
            i++
            continue
        }

        // Judge a run of terminal marks once, at its end.
        for i < len(runes) && (spacedTerminals[runes[i]] || unspacedTerminals[runes[i]]) {
            i++
        }
        if spaced && !unspaced && i < len(runes) && !unicode.IsSpace(runes[i]) && !isClosing(runes[i]) {
            continue
        }

        sentence := strings.TrimSpace(string(runes[start:i]))
        if len([]rune(sentence)) < s.minLength {
            continue
        }
        sentences = append(sentences, sentence)
        start = i
    }

    if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
        sentences = append(sentences, rest)
    }
    return sentences
}
