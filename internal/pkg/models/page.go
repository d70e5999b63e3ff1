package models

import "time"

// Provenance of a single sitemap as listed in the filemap TSV.
type SitemapRef struct {
	URL       string `bson:"url" json:"url"`
	ISO       string `bson:"iso" json:"iso"`
	Language  string `bson:"language" json:"language"`
	SiteName  string `bson:"site_name" json:"site_name"`
	Timestamp string `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	Region    string `bson:"region,omitempty" json:"region,omitempty"`
}

// A sitemap file on disk together with its provenance.
type SitemapFile struct {
	Filename string     `bson:"filename" json:"filename"`
	Sitemap  SitemapRef `bson:"sitemap" json:"sitemap"`
}

// A discovered URL plus its sitemap provenance. Immutable once harvested.
type Page struct {
	Prov         SitemapFile       `bson:"sitemap_prov"`
	URL          string            `bson:"url"`
	LastModified *time.Time        `bson:"sitemap_last_modified,omitempty"`
	ChangeFreq   string            `bson:"changefreq,omitempty"`
	Priority     string            `bson:"priority,omitempty"`
	News         map[string]string `bson:"news,omitempty"`
	Video        map[string]string `bson:"video,omitempty"`
	ArchiveURL   string            `bson:"archive_url,omitempty"`
}

// Outcome of one fetch attempt. Errors are captured here, never raised
// past the fetch boundary.
type FetchResult struct {
	Success       bool      `bson:"success"`
	TimeRetrieved time.Time `bson:"time_retrieved"`
	Content       string    `bson:"-"`
	ErrorMessage  string    `bson:"error_message,omitempty"`
}

// Metadata pulled out of the HTML head and script tags at fetch time.
type PageMeta struct {
	Title         string         `bson:"title,omitempty"`
	Description   string         `bson:"description,omitempty"`
	CanonicalLink string         `bson:"canonical_link,omitempty"`
	Keywords      []string       `bson:"keywords,omitempty"`
	Authors       []string       `bson:"authors,omitempty"`
	UtagData      map[string]any `bson:"utag_data,omitempty"`
	LDJSON        map[string]any `bson:"application_ld_json,omitempty"`
	ContentType   string         `bson:"content_type,omitempty"`
	Section       string         `bson:"section,omitempty"`
	HasPTags      bool           `bson:"has_ptags"`
	DatePublished *time.Time     `bson:"date_published,omitempty"`
	DateModified  *time.Time     `bson:"date_modified,omitempty"`
}

// The persisted record: page provenance, fetch outcome and extracted
// metadata. Within a canonical-link group at most one record should carry
// Latest=true; see store.UpsertPage for the (non-transactional) protocol.
type StoredPage struct {
	Page          `bson:",inline"`
	PageMeta      `bson:",inline"`
	OriginalHTML  string    `bson:"original_html,omitempty"`
	Success       bool      `bson:"success"`
	ErrorMessage  string    `bson:"error_message,omitempty"`
	Language      string    `bson:"language"`
	ISO           string    `bson:"iso"`
	TimeRetrieved time.Time `bson:"time_retrieved"`
	Latest        bool      `bson:"latest"`
	CrawlID       string    `bson:"crawl_id,omitempty"`
}

// Strips a stored page down to its provenance fields. Used when a full
// insert fails and we still need a record of the attempt.
func (p StoredPage) ProvenanceOnly(errMsg string) StoredPage {
	return StoredPage{
		Page:          p.Page,
		Success:       false,
		ErrorMessage:  errMsg,
		Language:      p.Language,
		ISO:           p.ISO,
		TimeRetrieved: p.TimeRetrieved,
		Latest:        false,
		CrawlID:       p.CrawlID,
	}
}
