package segment

import (
    "strings"
    "unicode"
)

// How far back and forward to look for the words flanking a punctuation
// run when judging a boundary.
const wordWindow = 20

// Minimum sentence length in runes for roman-script languages.
const romanMinLength = 10

// Honorific that precedes names and never ends a sentence.
const honorific = "Alhaji"

// Sentence segmenter for roman-script languages without a trained model.
// It scans for terminal punctuation runs and accepts a run as a sentence
// boundary only when the words on both sides pass a set of guards
// (abbreviations, numbered lists, honorifics, lowercase continuations).
type RomanSegmenter struct {
    language  string
    minLength int
}

func NewRomanSegmenter(iso string) *RomanSegmenter {
    return &RomanSegmenter{language: iso, minLength: romanMinLength}
}

func (s *RomanSegmenter) Language() string { return s.language }

func (s *RomanSegmenter) Segment(text string) []string {
    runes := []rune(strings.TrimSpace(spaceCharReplacer.Replace(text)))
    var sentences []string

    start := 0
    i := 0
    for i < len(runes) {
        if !isTerminal(runes[i]) {
            i++
            continue
        }

        // Consume the full punctuation run so "..." and "?!" are judged
        // once, at their end.
        runStart := i
        for i < len(runes) && isTerminal(runes[i]) {
            i++
        }

        if i < len(runes) && !boundaryFollower(runes[i]) {
            continue
        }
        if !s.acceptBoundary(runes, runStart, i) {
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

func isTerminal(r rune) bool {
    return r == '.' || r == '!' || r == '?'
}

// A boundary candidate must be followed by whitespace, an uppercase
// letter, or closing punctuation.
func boundaryFollower(r rune) bool {
    if unicode.IsSpace(r) || unicode.IsUpper(r) {
        return true
    }
    switch r {
    case '"', '\'', '”', '’', '»', ')', ']', '}':
        return true
    }
    return false
}

// Applies the word-level guards around a candidate run. left is the word
// ending just before the run, right the word starting just after it.
func (s *RomanSegmenter) acceptBoundary(runes []rune, runStart, runEnd int) bool {
    left := lastWord(runes, runStart)
    right := nextWord(runes, runEnd)

    // Honorifics precede a name; the dot after them is not terminal.
    if strings.HasSuffix(left, honorific) {
        return false
    }
    // Short tokens with an uppercase letter are abbreviations (Mr., U.S.,
    // Dr.), and a left word already ending in a dot is mid-abbreviation.
    if leftRunes := []rune(left); len(leftRunes) > 0 && len(leftRunes) <= 4 && containsUpper(left) {
        return false
    }
    if strings.HasSuffix(left, ".") {
        return false
    }
    // All-digit words flag numbered lists and decimal fragments; years
    // are the exception.
    if allDigits(left) && len([]rune(left)) != 4 {
        return false
    }
    if allDigits(right) && len([]rune(right)) != 4 {
        return false
    }
    // A lowercase continuation means the punctuation didn't end anything.
    if right != "" {
        if first := []rune(right)[0]; unicode.IsLetter(first) && !unicode.IsUpper(first) {
            return false
        }
    }
    return true
}

// The word ending immediately before index end, at most wordWindow runes.
func lastWord(runes []rune, end int) string {
    i := end
    for i > 0 && end-i < wordWindow && !unicode.IsSpace(runes[i-1]) {
        i--
    }
    return string(runes[i:end])
}

// The word starting at or after index start, skipping whitespace and
// closing punctuation, at most wordWindow runes.
func nextWord(runes []rune, start int) string {
    i := start
    for i < len(runes) && (unicode.IsSpace(runes[i]) || isClosing(runes[i])) {
        i++
    }
    j := i
    for j < len(runes) && j-i < wordWindow && !unicode.IsSpace(runes[j]) {
        j++
    }
    return string(runes[i:j])
}

func isClosing(r rune) bool {
    switch r {
    case '"', '\'', '”', '’', '»', ')', ']', '}':
        return true
    }
    return false
}

func containsUpper(word string) bool {
    for _, r := range word {
        if unicode.IsUpper(r) {
            return true
        }
    }
    return false
}

func allDigits(word string) bool {
    if word == "" {
        return false
    }
    for _, r := range word {
        if !unicode.IsDigit(r) {
            return false
        }
    }
    return true
}
