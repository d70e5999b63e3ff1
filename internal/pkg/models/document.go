package models

import "unicode/utf8"

// One detected language with the detector's confidence for it.
type LanguagePrediction struct {
	RawLanguage string  `json:"raw_language"`
	Probability float64 `json:"probability"`
	Proportion  float64 `json:"proportion"`
	IsReliable  bool    `json:"is_reliable"`
}

// The final corpus unit written as one JSON file per kept document.
// Sentences hold paragraphs of sentences; Tokens mirror that nesting one
// level deeper. Optional fields are omitted when empty, never emitted as
// null.
type Document struct {
	Filename               string                        `json:"filename"`
	URL                    string                        `json:"url"`
	URLOrigin              string                        `json:"url_origin"`
	ContentType            string                        `json:"content_type"`
	SiteLanguage           string                        `json:"site_language"`
	TimePublished          string                        `json:"time_published,omitempty"`
	TimeModified           string                        `json:"time_modified,omitempty"`
	TimeRetrieved          string                        `json:"time_retrieved,omitempty"`
	Title                  string                        `json:"title"`
	Authors                []string                      `json:"authors,omitempty"`
	Paragraphs             []string                      `json:"paragraphs"`
	NParagraphs            int                           `json:"n_paragraphs"`
	NChars                 int                           `json:"n_chars"`
	ParallelEnglishArticle string                        `json:"parallel_english_article,omitempty"`
	DetectedLanguages      map[string]LanguagePrediction `json:"detected_languages"`
	PredictedLanguage      string                        `json:"predicted_language"`
	Sentences              [][]string                    `json:"sentences,omitempty"`
	Tokens                 [][][]string                  `json:"tokens,omitempty"`
	NSentences             *int                          `json:"n_sentences,omitempty"`
	NTokens                *int                          `json:"n_tokens,omitempty"`
	Keywords               []string                      `json:"keywords,omitempty"`
	Section                string                        `json:"section,omitempty"`
}

// Returns a copy of the document with only the filename changed. Used for
// the filename-truncation retry; documents are never mutated in place.
func (d Document) WithFilename(name string) Document {
	d.Filename = name
	return d
}

// Fills in the derived count fields from the paragraph, sentence and
// token structure.
func (d *Document) ComputeCounts() {
	d.NParagraphs = len(d.Paragraphs)
	d.NChars = 0
	for _, p := range d.Paragraphs {
		d.NChars += utf8.RuneCountInString(p)
	}
	if d.Sentences != nil {
		n := 0
		for _, para := range d.Sentences {
			n += len(para)
		}
		d.NSentences = &n
	}
	if d.Tokens != nil {
		n := 0
		for _, para := range d.Tokens {
			for _, sent := range para {
				n += len(sent)
			}
		}
		d.NTokens = &n
	}
}
