package extractor

import (
    "strings"

    "github.com/PuerkitoBio/goquery"
)

// Known UI/navigation boilerplate that shows up inside paragraph tags.
// Matching is exact-prefix on whitespace-normalized text, not fuzzy.
var boilerplatePrefixes = []string{
    "No media source currently available",
    "Already have an account?",
    "Log in",
    "Sign up",
    "Not a registered user?",
    "The code has been copied to your clipboard",
    "The URL has been copied to your clipboard",
    "Embed",
    "0:",
    "share",
    "Telegram Banner",
    // AMH, "Listen to the list from the attached audio file."
    "ዝርዝሩን ከተያያዘው የድምጽ ፋይል ያድምጡ፡፡",
    // LAO, "Read more in English"
    "ອ່ານຂ່າວນີ້ຕື່ມເປັນພາສາອັງກິດ",
    // TIR, "The full content can be heard here"
    "ምሉእ ትሕዝቶ ኣብዚ ምስማዕ ይክኣል::",
    // UKR, "See also:"
    "Дивіться також:",
    // UZB, "Voices of America -"
    `"Amerika Ovozi" -`,
    "Avec Reuters",
    "Avec AFP",
    // POR, "Click here to open program"
    "Clique aqui para ouvir",
    "- Clique aqui para ouvir",
    "- Clique para ouvir",
    "-Clique para ouvir",
    "Clique na barra sobre este texto",
}

// Simple check to eliminate obviously bad text in paragraph tags.
func IsValid(text string) bool {
    text = strings.Join(strings.Fields(text), " ")
    if text == "" {
        return false
    }
    for _, prefix := range boilerplatePrefixes {
        if strings.HasPrefix(text, prefix) {
            return false
        }
    }
    return true
}

// Extracts ordered article paragraphs from the known structural
// containers, in a fixed priority order: the intro block, the main
// article content block (with a wsw fallback when it holds no paragraph
// tags), then the v2 article content block. Duplicate containers append
// in document order.
func Paragraphs(doc *goquery.Document, iso string) []string {
    var text []string

    doc.Find("div.intro").Each(func(_ int, intro *goquery.Selection) {
        intro.Find("p").Each(func(_ int, p *goquery.Selection) {
            text = append(text, splitParagraphs(p.Text())...)
        })
    })

    doc.Find("div#article-content").Each(func(_ int, article *goquery.Selection) {
        // Comments never contribute paragraphs.
        article.Find(".comments").Remove()

        if dateline := article.Find("span.dateline").First(); dateline.Length() > 0 {
            if line := strings.TrimSpace(dateline.Text()); line != "" {
                text = append(text, line)
            }
        }

        pTags := article.Find("p")
        if iso == "sna" {
            // This language's markup already segments one paragraph per
            // tag; embedded newlines are just wrapping.
            pTags.Each(func(_ int, p *goquery.Selection) {
                paragraph := strings.ReplaceAll(strings.TrimSpace(p.Text()), "\n", " ")
                if IsValid(paragraph) {
                    text = append(text, paragraph)
                }
            })
        } else {
            pTags.Each(func(_ int, p *goquery.Selection) {
                text = append(text, splitParagraphs(p.Text())...)
            })
        }

        if pTags.Length() == 0 {
            article.Find("div.wsw").Each(func(_ int, w *goquery.Selection) {
                text = append(text, splitParagraphs(w.Text())...)
            })
        }
    })

    doc.Find("div.article__content").Each(func(_ int, article *goquery.Selection) {
        article.Find("p").Each(func(_ int, p *goquery.Selection) {
            text = append(text, splitParagraphs(p.Text())...)
        })
    })

    return text
}

// A single tag may encode several logical paragraphs separated by
// newlines; split, trim and filter them.
func splitParagraphs(text string) []string {
    var paragraphs []string
    for _, part := range strings.Split(text, "\n") {
        part = strings.TrimSpace(part)
        if IsValid(part) {
            paragraphs = append(paragraphs, part)
        }
    }
    return paragraphs
}

// Returns the page title. The Korean site appends its name to every
// title, so trim it there.
func Title(doc *goquery.Document, iso string) string {
    title := strings.TrimSpace(doc.Find("title").First().Text())
    if iso == "kor" {
        title = strings.TrimSpace(strings.TrimSuffix(title, "| Voice of America - Korean"))
    }
    return title
}

// The Lao site links each article to its English parallel; the same
// anchor class holds unrelated text on other sites, so look only there.
func ParallelArticle(doc *goquery.Document, iso string) string {
    if iso != "lao" {
        return ""
    }
    var parallel string
    doc.Find("a.wsw__a[href]").Each(func(_ int, a *goquery.Selection) {
        if href, ok := a.Attr("href"); ok {
            parallel = href
        }
    })
    return parallel
}
