package segment

import (
    "strings"
    "unicode"
)

// Ethiopic sentence punctuation.
const (
    geezFullStop     = '።'
    geezQuestionMark = '፧'
    geezParagraphSep = '፠'
)

// Minimum sentence length in runes for Ge'ez-script languages.
const geezMinLength = 8

// Sentence segmenter for Ge'ez-script languages (Amharic, Tigrinya). The
// script has unambiguous sentence punctuation, so the only guards needed
// are against doubled marks, paragraph separators and numbered lists.
type GeezSegmenter struct {
    language  string
    minLength int
}

func NewGeezSegmenter(iso string) *GeezSegmenter {
    return &GeezSegmenter{language: iso, minLength: geezMinLength}
}

func (s *GeezSegmenter) Language() string { return s.language }

func (s *GeezSegmenter) Segment(text string) []string {
    // Keep the Ethiopic wordspace; only invisible characters go.
    runes := []rune(strings.TrimSpace(zeroWidthReplacer.Replace(text)))
    var sentences []string

    start := 0
    for i, r := range runes {
        if r != geezFullStop && r != geezQuestionMark {
            continue
        }
        // A doubled mark is judged at its last character.
        if i+1 < len(runes) && (runes[i+1] == geezFullStop || runes[i+1] == geezQuestionMark) {
            continue
        }
        // Marks trailing a paragraph separator decorate it rather than
        // close a sentence.
        if i >= 1 && runes[i-1] == geezParagraphSep {
            continue
        }
        if i >= 2 && runes[i-2] == geezParagraphSep {
            continue
        }
        // Digits on either side mean list numbering, not sentence ends.
        if i >= 1 && unicode.IsDigit(runes[i-1]) {
            continue
        }
        if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
            continue
        }

        sentence := strings.TrimSpace(string(runes[start : i+1]))
        if len([]rune(sentence)) < s.minLength {
            continue
        }
        sentences = append(sentences, sentence)
        start = i + 1
    }

    if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
        sentences = append(sentences, rest)
    }
    return sentences
}
