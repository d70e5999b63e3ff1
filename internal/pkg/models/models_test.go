package models

import (
    "encoding/json"
    "reflect"
    "strings"
    "testing"
    "time"
)

func TestDocumentComputeCounts(t *testing.T) {
    doc := Document{
        Paragraphs: []string{"abc def", "ghi"},
        Sentences:  [][]string{{"abc def"}, {"ghi"}},
        Tokens:     [][][]string{{{"abc", "def"}}, {{"ghi"}}},
    }
    doc.ComputeCounts()

    if doc.NParagraphs != 2 {
        t.Errorf("Expected 2 paragraphs, got %d", doc.NParagraphs)
    }
    if doc.NChars != 10 {
        t.Errorf("Expected 10 chars, got %d", doc.NChars)
    }
    if doc.NSentences == nil || *doc.NSentences != 2 {
        t.Errorf("Expected 2 sentences, got %v", doc.NSentences)
    }
    if doc.NTokens == nil || *doc.NTokens != 3 {
        t.Errorf("Expected 3 tokens, got %v", doc.NTokens)
    }
}

func TestDocumentComputeCountsRunes(t *testing.T) {
    doc := Document{Paragraphs: []string{"ሰላም"}}
    doc.ComputeCounts()
    if doc.NChars != 3 {
        t.Errorf("Expected 3 runes, got %d", doc.NChars)
    }
    if doc.NSentences != nil {
        t.Errorf("Expected nil sentence count without sentences, got %v", doc.NSentences)
    }
}

func TestDocumentWithFilename(t *testing.T) {
    doc := Document{Filename: "original", URL: "https://example.com/a"}
    renamed := doc.WithFilename("truncated")

    if renamed.Filename != "truncated" {
        t.Errorf("Expected 'truncated', got '%s'", renamed.Filename)
    }
    if renamed.URL != doc.URL {
        t.Errorf("Expected URL to carry over, got '%s'", renamed.URL)
    }
    if doc.Filename != "original" {
        t.Errorf("Expected original document untouched, got '%s'", doc.Filename)
    }
}

func TestDocumentJSONRoundTrip(t *testing.T) {
    nSentences := 1
    doc := Document{
        Filename:          "site_a_article",
        URL:               "https://site.com/a/article.html",
        URLOrigin:         "https://site.com/sitemap.xml",
        ContentType:       "article",
        SiteLanguage:      "hau",
        Title:             "A title",
        Paragraphs:        []string{"One paragraph."},
        NParagraphs:       1,
        NChars:            14,
        DetectedLanguages: map[string]LanguagePrediction{"hau": {RawLanguage: "ha", Probability: 0.99, Proportion: 1.0, IsReliable: true}},
        PredictedLanguage: "hau",
        Sentences:         [][]string{{"One paragraph."}},
        NSentences:        &nSentences,
    }

    data, err := json.Marshal(doc)
    if err != nil {
        t.Fatalf("Expected no error, got %v", err)
    }

    var decoded Document
    if err := json.Unmarshal(data, &decoded); err != nil {
        t.Fatalf("Expected no error, got %v", err)
    }
    if !reflect.DeepEqual(doc, decoded) {
        t.Errorf("Expected round-tripped document to be equal:\n%+v\n%+v", doc, decoded)
    }
}

func TestDocumentOmitsEmptyOptionalFields(t *testing.T) {
    data, err := json.Marshal(Document{Filename: "f"})
    if err != nil {
        t.Fatalf("Expected no error, got %v", err)
    }
    for _, field := range []string{"n_sentences", "n_tokens", "time_published", "authors", "section"} {
        if strings.Contains(string(data), `"`+field+`"`) {
            t.Errorf("Expected %s to be omitted when empty", field)
        }
    }
}

func TestProvenanceOnly(t *testing.T) {
    page := StoredPage{
        Page:          Page{URL: "https://site.com/a"},
        PageMeta:      PageMeta{Title: "kept out", CanonicalLink: "https://site.com/a"},
        OriginalHTML:  "<html>big body</html>",
        Success:       true,
        Language:      "Hausa",
        ISO:           "hau",
        TimeRetrieved: time.Date(2021, 6, 8, 0, 0, 0, 0, time.UTC),
        Latest:        true,
        CrawlID:       "crawl-1",
    }

    degraded := page.ProvenanceOnly("encoding failed")

    if degraded.Success {
        t.Error("Expected degraded record to be unsuccessful")
    }
    if degraded.Latest {
        t.Error("Expected degraded record to not be latest")
    }
    if degraded.OriginalHTML != "" {
        t.Error("Expected content to be dropped")
    }
    if degraded.PageMeta.Title != "" {
        t.Error("Expected metadata to be dropped")
    }
    if degraded.ErrorMessage != "encoding failed" {
        t.Errorf("Expected error message, got '%s'", degraded.ErrorMessage)
    }
    if degraded.URL != page.URL || degraded.ISO != "hau" || degraded.CrawlID != "crawl-1" {
        t.Error("Expected provenance fields to carry over")
    }
}
