package segment

import "unicode"

// Word tokenizer for space-delimited scripts. Letters, digits, combining
// marks and in-word apostrophes accumulate into tokens; every other
// non-space character becomes a token of its own, so punctuation is kept
// but separated.
type UnicodeTokenizer struct {
    language string
}

func NewUnicodeTokenizer(iso string) *UnicodeTokenizer {
    return &UnicodeTokenizer{language: iso}
}

func (t *UnicodeTokenizer) Language() string { return t.language }

func (t *UnicodeTokenizer) Tokenize(text string) []string {
    return tokenize(spaceCharReplacer.Replace(text), nil)
}

// Word tokenizer for Ge'ez-script text, where the Ethiopic wordspace is
// the word separator.
type GeezTokenizer struct {
    language string
}

func NewGeezTokenizer(iso string) *GeezTokenizer {
    return &GeezTokenizer{language: iso}
}

func (t *GeezTokenizer) Language() string { return t.language }

func (t *GeezTokenizer) Tokenize(text string) []string {
    return tokenize(zeroWidthReplacer.Replace(text), map[rune]bool{ethiopicWordspace: true})
}

func tokenize(text string, separators map[rune]bool) []string {
    var tokens []string
    var current []rune

    flush := func() {
        if len(current) > 0 {
            tokens = append(tokens, string(current))
            current = current[:0]
        }
    }

    for _, r := range text {
        switch {
        case unicode.IsSpace(r) || separators[r]:
            flush()
        case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
            current = append(current, r)
        case (r == '\'' || r == '’') && len(current) > 0:
            // In-word apostrophes (n'a, ka'a) stay attached.
            current = append(current, r)
        default:
            flush()
            tokens = append(tokens, string(r))
        }
    }
    flush()
    return tokens
}
