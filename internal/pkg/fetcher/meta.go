package fetcher

import (
    "regexp"
    "strconv"
    "strings"
    "time"

    "github.com/PuerkitoBio/goquery"
    "github.com/araddon/dateparse"
    "github.com/yosuke-furukawa/json5/encoding/json5"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/extractor"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/models"
)

var utagPattern = regexp.MustCompile(`var\s+utag_data\s*=\s*(\{.*\})`)

// Pulls title, description, canonical link, keywords, author list and the
// utag/ld+json script metadata out of raw HTML. Returns the zero value
// when the HTML can't be parsed at all.
func ParseMeta(html, pageURL string) models.PageMeta {
    doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
    if err != nil {
        logger.Log.Warn("Failed to parse HTML", zap.String("url", pageURL), zap.Error(err))
        return models.PageMeta{}
    }

    var meta models.PageMeta
    meta.Title, _ = doc.Find(`meta[name="title"]`).Attr("content")
    meta.Description, _ = doc.Find(`meta[name="description"]`).Attr("content")
    meta.CanonicalLink, _ = doc.Find(`link[rel="canonical"]`).Attr("href")

    if keywords, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
        for _, keyword := range strings.Split(keywords, ",") {
            if keyword = strings.TrimSpace(keyword); keyword != "" {
                meta.Keywords = append(meta.Keywords, keyword)
            }
        }
    }
    doc.Find(`meta[name="Author"]`).Each(func(_ int, s *goquery.Selection) {
        if author, ok := s.Attr("content"); ok {
            meta.Authors = append(meta.Authors, author)
        }
    })

    meta.UtagData = extractUtagData(doc, pageURL)
    meta.LDJSON = extractLDJSON(doc)
    meta.ContentType = utagString(meta.UtagData, "content_type")
    meta.Section = utagString(meta.UtagData, "section")

    if published, ok := meta.LDJSON["datePublished"].(string); ok {
        if t, err := dateparse.ParseAny(published); err == nil {
            meta.DatePublished = &t
        }
    }
    if meta.DatePublished == nil {
        meta.DatePublished = publicationDateFromUtag(meta.UtagData)
    }
    if modified, ok := meta.LDJSON["dateModified"].(string); ok {
        if t, err := dateparse.ParseAny(modified); err == nil {
            meta.DateModified = &t
        }
    }

    // Whether any paragraph tag survives the boilerplate filter; used by
    // the extraction stage's store query.
    doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
        if extractor.IsValid(s.Text()) {
            meta.HasPTags = true
            return false
        }
        return true
    })

    return meta
}

// Finds the analytics object assigned in an inline script
// (var utag_data = {...}) and parses it. The object is JavaScript, not
// strict JSON, hence the json5 parse.
func extractUtagData(doc *goquery.Document, pageURL string) map[string]any {
    var utag map[string]any
    doc.Find(`script[type="text/javascript"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
        match := utagPattern.FindStringSubmatch(s.Text())
        if match == nil {
            return true
        }
        if err := json5.Unmarshal([]byte(match[1]), &utag); err != nil {
            logger.Log.Warn("Failed to parse utag_data",
                zap.String("url", pageURL),
                zap.Error(err))
            utag = nil
            return true
        }
        return false
    })
    return utag
}

func extractLDJSON(doc *goquery.Document) map[string]any {
    var ld map[string]any
    doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
        text := strings.TrimSpace(s.Text())
        if text == "" {
            return true
        }
        if err := json5.Unmarshal([]byte(text), &ld); err != nil {
            ld = nil
            return true
        }
        return false
    })
    return ld
}

func utagString(utag map[string]any, key string) string {
    if value, ok := utag[key].(string); ok {
        return value
    }
    return ""
}

// Reconstructs a publication date from the utag pub_* fields when the
// ld+json block didn't carry one. Impossible days (leap-year artifacts)
// fall back to the first of the month so the year and month survive.
func publicationDateFromUtag(utag map[string]any) *time.Time {
    year := utagInt(utag, "pub_year")
    month := utagInt(utag, "pub_month")
    day := utagInt(utag, "pub_day")
    hour := utagInt(utag, "pub_hour")
    minute := utagInt(utag, "pub_minute")
    if year == 0 || month == 0 || day == 0 {
        return nil
    }
    if month < 1 || month > 12 {
        return nil
    }
    t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
    if t.Month() != time.Month(month) {
        // Day overflowed the month
        t = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
    }
    return &t
}

func utagInt(utag map[string]any, key string) int {
    switch value := utag[key].(type) {
    case string:
        n, _ := strconv.Atoi(strings.TrimSpace(value))
        return n
    case float64:
        return int(value)
    default:
        return 0
    }
}
