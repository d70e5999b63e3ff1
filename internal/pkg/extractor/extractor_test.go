package extractor

import (
    "reflect"
    "strings"
    "testing"

    "github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, html string) *goquery.Document {
    t.Helper()
    doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
    if err != nil {
        t.Fatalf("Expected no error parsing html, got %v", err)
    }
    return doc
}

func TestIsValid(t *testing.T) {
    if IsValid("") {
        t.Error("Expected empty text to be invalid")
    }
    if IsValid("   \n\t ") {
        t.Error("Expected whitespace-only text to be invalid")
    }
    if IsValid("Embed share the code") {
        t.Error("Expected boilerplate prefix to be invalid")
    }
    if IsValid("  No   media source currently available") {
        t.Error("Expected boilerplate to be invalid despite irregular spacing")
    }
    if !IsValid("An ordinary news paragraph.") {
        t.Error("Expected ordinary text to be valid")
    }
}

func TestParagraphsContainerOrder(t *testing.T) {
    doc := parse(t, `
        <html><body>
        <div class="intro"><p>Intro paragraph.</p></div>
        <div id="article-content">
            <p>First body paragraph.</p>
            <p>Second body paragraph.</p>
        </div>
        <div class="article__content"><p>Trailing paragraph.</p></div>
        </body></html>`)

    got := Paragraphs(doc, "hau")
    want := []string{
        "Intro paragraph.",
        "First body paragraph.",
        "Second body paragraph.",
        "Trailing paragraph.",
    }
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsRemovesComments(t *testing.T) {
    doc := parse(t, `
        <div id="article-content">
            <p>Article text here.</p>
            <div class="comments"><p>Reader comment.</p></div>
        </div>`)

    got := Paragraphs(doc, "hau")
    want := []string{"Article text here."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsDateline(t *testing.T) {
    doc := parse(t, `
        <div id="article-content">
            <span class="dateline">ABUJA, Nigeria</span>
            <p>Body text follows the dateline.</p>
        </div>`)

    got := Paragraphs(doc, "hau")
    want := []string{"ABUJA, Nigeria", "Body text follows the dateline."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsWswFallback(t *testing.T) {
    doc := parse(t, `
        <div id="article-content">
            <div class="wsw">Fallback text line one.
Fallback text line two.</div>
        </div>`)

    got := Paragraphs(doc, "hau")
    want := []string{"Fallback text line one.", "Fallback text line two."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsWswIgnoredWhenPTagsPresent(t *testing.T) {
    doc := parse(t, `
        <div id="article-content">
            <p>Real paragraph.</p>
            <div class="wsw">Should not appear.</div>
        </div>`)

    got := Paragraphs(doc, "hau")
    want := []string{"Real paragraph."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsShonaKeepsTagBoundaries(t *testing.T) {
    // Shona markup already segments one paragraph per tag; embedded
    // newlines are wrapping, not paragraph breaks.
    doc := parse(t, `
        <div id="article-content">
            <p>Chikamu chekutanga
chinoenderera mberi.</p>
        </div>`)

    got := Paragraphs(doc, "sna")
    want := []string{"Chikamu chekutanga chinoenderera mberi."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }

    got = Paragraphs(doc, "hau")
    want = []string{"Chikamu chekutanga", "chinoenderera mberi."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestParagraphsFiltersBoilerplate(t *testing.T) {
    doc := parse(t, `
        <div id="article-content">
            <p>Embed</p>
            <p>Kept paragraph.</p>
        </div>`)

    got := Paragraphs(doc, "hau")
    want := []string{"Kept paragraph."}
    if !reflect.DeepEqual(got, want) {
        t.Errorf("Expected %v, got %v", want, got)
    }
}

func TestTitle(t *testing.T) {
    doc := parse(t, `<html><head><title> Breaking News </title></head></html>`)
    if got := Title(doc, "hau"); got != "Breaking News" {
        t.Errorf("Expected 'Breaking News', got '%s'", got)
    }

    doc = parse(t, `<html><head><title>뉴스 제목 | Voice of America - Korean</title></head></html>`)
    if got := Title(doc, "kor"); got != "뉴스 제목" {
        t.Errorf("Expected '뉴스 제목', got '%s'", got)
    }
}

func TestParallelArticle(t *testing.T) {
    html := `
        <div class="wsw">
            <a class="wsw__a" href="https://example.com/first">one</a>
            <a class="wsw__a" href="https://example.com/english">two</a>
        </div>`

    doc := parse(t, html)
    if got := ParallelArticle(doc, "lao"); got != "https://example.com/english" {
        t.Errorf("Expected last parallel link, got '%s'", got)
    }
    if got := ParallelArticle(doc, "hau"); got != "" {
        t.Errorf("Expected no parallel link outside lao, got '%s'", got)
    }
}
