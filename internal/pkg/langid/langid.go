package langid

import (
    "strings"

    "github.com/pemistahl/lingua-go"

    "webcorpus/internal/pkg/models"
)

// Thresholds for counting a detection as confident at the document level.
const (
    ProbabilityThreshold = 0.9
    ProportionThreshold  = 0.05
)

// Thresholds for stripping English paragraphs out of non-English sites.
const (
    EnglishProbabilityThreshold = 0.7
    EnglishProportionThreshold  = 0.25
)

// Probability at or above which a single detection is marked reliable.
const reliableThreshold = 0.7

// At most this many candidate languages are reported per text.
const maxCandidates = 5

// A paragraph relocated to the provenance log by the English filter.
type RemovedParagraph struct {
    Index       int
    Probability float64
    Proportion  float64
    Text        string
}

// Global language detector singleton to avoid repeated initialization
var detector lingua.LanguageDetector

// Initializes the language detector once
func init() {
    // Build the detector with preloaded models for better performance
    detector = lingua.NewLanguageDetectorBuilder().
        FromAllLanguages().
        WithPreloadedLanguageModels().
        Build()
}

// Identifies up to five candidate languages for the text. Codes are
// normalized to lowercase ISO 639-3; probability is the detector's
// relative confidence, proportion the share of the text attributed to
// that language by multi-language span detection.
func Identify(text string) map[string]models.LanguagePrediction {
    text = strings.TrimSpace(text)
    if text == "" {
        return nil
    }

    proportions := make(map[string]float64)
    for _, span := range detector.DetectMultipleLanguagesOf(text) {
        code := isoCode(span.Language())
        proportions[code] += float64(span.EndIndex()-span.StartIndex()) / float64(len(text))
    }

    predictions := make(map[string]models.LanguagePrediction)
    for _, confidence := range detector.ComputeLanguageConfidenceValues(text) {
        if confidence.Value() <= 0 {
            continue
        }
        code := isoCode(confidence.Language())
        proportion := proportions[code]
        if len(proportions) == 0 && len(predictions) == 0 {
            // Span detection found nothing; the top candidate owns the
            // whole text.
            proportion = 1.0
        }
        predictions[code] = models.LanguagePrediction{
            RawLanguage: strings.ToLower(confidence.Language().IsoCode639_1().String()),
            Probability: confidence.Value(),
            Proportion:  proportion,
            IsReliable:  confidence.Value() >= reliableThreshold,
        }
        if len(predictions) == maxCandidates {
            break
        }
    }
    return predictions
}

func isoCode(language lingua.Language) string {
    return strings.ToLower(language.IsoCode639_3().String())
}

// Filters predictions down to those meeting both thresholds.
func FilterConfident(predictions map[string]models.LanguagePrediction, probability, proportion float64) map[string]models.LanguagePrediction {
    confident := make(map[string]models.LanguagePrediction)
    for code, prediction := range predictions {
        if prediction.Probability >= probability && prediction.Proportion >= proportion {
            confident[code] = prediction
        }
    }
    return confident
}

// Reports whether more than one language independently clears both
// confidence thresholds.
func ConfidentMultipleLanguages(predictions map[string]models.LanguagePrediction) bool {
    if len(predictions) <= 1 {
        return false
    }
    return len(FilterConfident(predictions, ProbabilityThreshold, ProportionThreshold)) > 1
}

// Returns the ISO 639-3 code for the whole document given the sitemap's
// declared code and the detections. The declared code wins when the
// detector is confident in a single language, since the detector doesn't
// cover every language we crawl. Confident detections of several
// languages at once are tagged "mul"; a non-English site whose only
// detected language is English was mislabeled, so return "eng".
func PredictLanguage(iso string, predictions map[string]models.LanguagePrediction) string {
    if len(predictions) == 0 {
        return iso
    }
    if iso != "eng" && len(predictions) == 1 {
        if _, onlyEnglish := predictions["eng"]; onlyEnglish {
            return "eng"
        }
    }
    if ConfidentMultipleLanguages(predictions) {
        return "mul"
    }
    return iso
}

// Returns the one language detected with probability and proportion both
// above 0.9, or "" when zero or several qualify.
func ConfidentSingleLanguage(predictions map[string]models.LanguagePrediction) string {
    var confident []string
    for code, prediction := range predictions {
        if prediction.Probability > 0.9 && prediction.Proportion > 0.9 {
            confident = append(confident, code)
        }
    }
    if len(confident) == 1 {
        return confident[0]
    }
    return ""
}

// Splits paragraphs into kept and removed: a paragraph is removed when
// English is detected confidently enough, or is the only detection at
// all. Removed paragraphs keep their index and scores for the audit log.
func FilterEnglishParagraphs(paragraphs []string) ([]string, []RemovedParagraph) {
    var kept []string
    var removed []RemovedParagraph
    for i, paragraph := range paragraphs {
        predictions := Identify(paragraph)
        english, detected := predictions["eng"]
        if detected &&
            ((english.Probability > EnglishProbabilityThreshold && english.Proportion > EnglishProportionThreshold) ||
                len(predictions) == 1) {
            removed = append(removed, RemovedParagraph{
                Index:       i,
                Probability: english.Probability,
                Proportion:  english.Proportion,
                Text:        paragraph,
            })
            continue
        }
        kept = append(kept, paragraph)
    }
    return kept, removed
}

// Judges whether the document has extractable content at all. With
// tokens present: no paragraphs, one paragraph of zero sentences, or one
// paragraph of one sentence shorter than tokLen tokens all count as
// empty. Without tokens, fall back to the raw character count.
func ReasonableLen(tokens [][][]string, nChars, tokLen, charLen int) bool {
    if tokens != nil {
        if len(tokens) == 0 {
            return false
        }
        if len(tokens) == 1 && len(tokens[0]) == 0 {
            return false
        }
        if len(tokens) == 1 && len(tokens[0]) == 1 && len(tokens[0][0]) < tokLen {
            return false
        }
        return true
    }
    return nChars > charLen
}
