package sitemap

import (
    "encoding/csv"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/antchfx/xmlquery"
    "github.com/araddon/dateparse"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/models"
)

// Reads the filemap TSV (header row, then
// Filename, Url, ISO, Language, Sitename, Timestamp, Region) and groups
// the sitemap files by ISO code.
func ReadFilemap(path string) (map[string][]models.SitemapFile, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, fmt.Errorf("failed to open filemap: %w", err)
    }
    defer f.Close()

    reader := csv.NewReader(f)
    reader.Comma = '\t'
    reader.FieldsPerRecord = -1

    rows, err := reader.ReadAll()
    if err != nil {
        return nil, fmt.Errorf("failed to read filemap: %w", err)
    }

    sitemaps := make(map[string][]models.SitemapFile)
    for i, fields := range rows {
        // Skip header
        if i == 0 {
            continue
        }
        if len(fields) < 7 {
            logger.Log.Warn("Skipping short filemap row", zap.Int("row", i))
            continue
        }
        file := models.SitemapFile{
            Filename: fields[0],
            Sitemap: models.SitemapRef{
                URL:       fields[1],
                ISO:       fields[2],
                Language:  fields[3],
                SiteName:  fields[4],
                Timestamp: strings.TrimSpace(fields[5]),
                Region:    strings.TrimSpace(fields[6]),
            },
        }
        sitemaps[file.Sitemap.ISO] = append(sitemaps[file.Sitemap.ISO], file)
    }
    return sitemaps, nil
}

// Parses every sitemap file in the list and flattens the url entries into
// Page descriptors. A sitemap that fails to parse is logged and skipped;
// the harvest continues. URLs already seen within the list are dropped,
// first occurrence wins.
func PagesFromSitemaps(files []models.SitemapFile, dir string) []models.Page {
    var pages []models.Page
    existing := make(map[string]struct{})
    for _, file := range files {
        nodes, err := parseSitemapFile(filepath.Join(dir, file.Filename))
        if err != nil {
            logger.Log.Warn("Couldn't parse sitemap",
                zap.String("filename", file.Filename),
                zap.Error(err))
            continue
        }
        for _, node := range nodes {
            page := pageFromNode(node, file)
            if page.URL == "" {
                continue
            }
            if _, seen := existing[page.URL]; seen {
                continue
            }
            existing[page.URL] = struct{}{}
            pages = append(pages, page)
        }
    }
    return pages
}

func parseSitemapFile(path string) ([]*xmlquery.Node, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()

    doc, err := xmlquery.Parse(f)
    if err != nil {
        return nil, err
    }
    return xmlquery.Find(doc, "//url"), nil
}

// Flattens one <url> node. Namespaced news/video extension blocks are
// gathered into plain maps keyed by local tag name.
func pageFromNode(node *xmlquery.Node, prov models.SitemapFile) models.Page {
    page := models.Page{Prov: prov}
    for child := node.FirstChild; child != nil; child = child.NextSibling {
        if child.Type != xmlquery.ElementNode {
            continue
        }
        switch child.Data {
        case "loc":
            page.URL = strings.TrimSpace(child.InnerText())
        case "lastmod":
            page.LastModified = parseTimestamp(child.InnerText())
        case "changefreq":
            page.ChangeFreq = strings.TrimSpace(child.InnerText())
        case "priority":
            page.Priority = strings.TrimSpace(child.InnerText())
        case "news":
            page.News = gatherSubtags(child)
        case "video":
            page.Video = gatherSubtags(child)
        default:
            logger.Log.Debug("Unhandled sitemap tag", zap.String("tag", child.Data))
        }
    }
    return page
}

// There's a bunch of subtags on video and news, so just throw those in a
// map. Nested blocks are flattened one level deep.
func gatherSubtags(node *xmlquery.Node) map[string]string {
    subtags := make(map[string]string)
    for child := node.FirstChild; child != nil; child = child.NextSibling {
        if child.Type != xmlquery.ElementNode {
            continue
        }
        subtags[child.Data] = strings.TrimSpace(child.InnerText())
    }
    if len(subtags) == 0 {
        return nil
    }
    return subtags
}

// Some sitemaps carry timestamps with over-long fractional seconds
// (2021-06-08T16:03:48.170195Z and worse). Trim the fraction before
// falling back to a lenient parse.
func parseTimestamp(s string) *time.Time {
    s = strings.TrimSpace(s)
    if s == "" || s == "None" {
        return nil
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return &t
    }
    if dot := strings.IndexByte(s, '.'); dot > 0 && strings.HasSuffix(s, "Z") {
        if t, err := time.Parse(time.RFC3339, s[:dot]+"Z"); err == nil {
            return &t
        }
    }
    if t, err := dateparse.ParseAny(s); err == nil {
        return &t
    }
    logger.Log.Debug("Unparseable lastmod timestamp", zap.String("value", s))
    return nil
}
