package writer

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "syscall"

    "go.uber.org/zap"

    "webcorpus/internal/pkg/langid"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/models"
)

// Filenames longer than the filesystem limit are retried once with this
// many trailing characters.
const truncatedFilenameLength = 100

const (
    filteredDirName  = "lang_id_filtered"
    removedDirName   = "eng-filtered-paragraphs"
    emptyOutputName  = "empty_output.txt"
    otherContentType = "other"
)

// Writer lays out the output corpus on disk. Each site gets an
// <iso>_<domain> directory; kept documents land in a content-type
// subdirectory of it, documents whose detected language contradicts the
// site label in lang_id_filtered, paragraphs stripped by the English
// filter in eng-filtered-paragraphs, and content-free documents as bare
// URLs in the content-type directory's empty_output.txt.
type Writer struct {
    outDir string

    mu sync.Mutex // guards the shared empty-output logs
}

func New(outDir string) *Writer {
    return &Writer{outDir: outDir}
}

// Derives a flat filename from a page URL: percent-escapes resolved,
// scheme and www. stripped, dots and slashes flattened to underscores.
// Sister TLDs are normalized to .com first so every site splits the
// same way. The second return is false for URLs with no recognizable
// domain/path split; those pages can't be written at all.
func Filename(rawURL string) (string, bool) {
    domain, path, ok := splitURL(rawURL)
    if !ok {
        return "", false
    }
    return domain + "_" + path, true
}

func splitURL(rawURL string) (string, string, bool) {
    unescaped, err := url.QueryUnescape(rawURL)
    if err != nil {
        unescaped = rawURL
    }
    for _, tld := range []string{".net/", ".gov/", ".org/"} {
        unescaped = strings.ReplaceAll(unescaped, tld, ".com/")
    }

    domain, path, found := strings.Cut(unescaped, ".com/")
    if !found || strings.Contains(path, ".com/") {
        return "", "", false
    }
    domain = strings.TrimPrefix(domain, "https://")
    domain = strings.TrimPrefix(domain, "http://")
    domain = strings.TrimPrefix(domain, "www.")
    domain = strings.ReplaceAll(domain, ".", "_")

    path = strings.TrimSuffix(path, ".html")
    path = strings.ReplaceAll(path, "/", "_")
    return domain, path, true
}

// The per-site directory, e.g. hau_voahausa.
func (w *Writer) siteDir(doc models.Document) string {
    domain, _, _ := splitURL(doc.URL)
    return filepath.Join(w.outDir, doc.SiteLanguage+"_"+domain)
}

// The kept-document directory for the document's content type.
func (w *Writer) contentDir(doc models.Document) string {
    contentType := doc.ContentType
    if contentType == "" {
        contentType = otherContentType
    }
    return filepath.Join(w.siteDir(doc), contentType)
}

// Writes a kept document into its site's content-type directory.
func (w *Writer) WriteKept(doc models.Document) error {
    return w.writeJSON(w.contentDir, doc)
}

// Writes a document the language filter rejected; the full document is
// preserved under the site's lang_id_filtered directory for auditing.
func (w *Writer) WriteLanguageFiltered(doc models.Document) error {
    return w.writeJSON(func(d models.Document) string {
        return filepath.Join(w.siteDir(d), filteredDirName)
    }, doc)
}

// Serializes the document to <dir>/<filename>.json. A name the
// filesystem rejects as too long is retried once with its truncated
// form; a second failure abandons only this document.
func (w *Writer) writeJSON(dir func(models.Document) string, doc models.Document) error {
    err := w.writeJSONOnce(dir(doc), doc)
    if errors.Is(err, syscall.ENAMETOOLONG) {
        truncated := doc.WithFilename(lastRunes(doc.Filename, truncatedFilenameLength))
        logger.Log.Warn("Filename too long, retrying truncated",
            zap.String("url", doc.URL),
            zap.String("filename", truncated.Filename))
        err = w.writeJSONOnce(dir(truncated), truncated)
    }
    return err
}

func (w *Writer) writeJSONOnce(dir string, doc models.Document) error {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("failed to create output directory %s: %w", dir, err)
    }

    file, err := os.Create(filepath.Join(dir, doc.Filename+".json"))
    if err != nil {
        return err
    }
    defer file.Close()

    encoder := json.NewEncoder(file)
    encoder.SetEscapeHTML(false)
    if err := encoder.Encode(doc); err != nil {
        return fmt.Errorf("failed to encode document %s: %w", doc.Filename, err)
    }
    return nil
}

// Appends the URL of a content-free document to its content-type
// directory's log. These pages parsed fine but held nothing extractable.
func (w *Writer) WriteEmpty(doc models.Document) error {
    w.mu.Lock()
    defer w.mu.Unlock()

    dir := w.contentDir(doc)
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("failed to create output directory %s: %w", dir, err)
    }

    file, err := os.OpenFile(filepath.Join(dir, emptyOutputName),
        os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("failed to open empty-output log: %w", err)
    }
    defer file.Close()

    if _, err := fmt.Fprintln(file, doc.URL); err != nil {
        return fmt.Errorf("failed to log empty document %s: %w", doc.URL, err)
    }
    return nil
}

var tsvCleaner = strings.NewReplacer("\t", " ", "\n", " ")

// Records the paragraphs the English filter removed from a document, one
// TSV row per paragraph, under the site's eng-filtered-paragraphs
// directory. Tabs and newlines inside the text are flattened so every
// row stays a single line.
func (w *Writer) WriteRemovedParagraphs(doc models.Document, removed []langid.RemovedParagraph) error {
    if len(removed) == 0 {
        return nil
    }

    dir := filepath.Join(w.siteDir(doc), removedDirName)
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("failed to create removed-paragraphs directory: %w", err)
    }

    file, err := os.Create(filepath.Join(dir, doc.Filename))
    if err != nil {
        return fmt.Errorf("failed to create removed-paragraphs file for %s: %w", doc.Filename, err)
    }
    defer file.Close()

    for _, paragraph := range removed {
        if _, err := fmt.Fprintf(file, "%d\t%g\t%g\t%s\n",
            paragraph.Index, paragraph.Probability, paragraph.Proportion,
            tsvCleaner.Replace(paragraph.Text)); err != nil {
            return fmt.Errorf("failed to write removed paragraph for %s: %w", doc.Filename, err)
        }
    }
    return nil
}

func lastRunes(s string, n int) string {
    runes := []rune(s)
    if len(runes) <= n {
        return s
    }
    return string(runes[len(runes)-n:])
}
