package langid

import (
    "testing"

    "webcorpus/internal/pkg/models"
)

func prediction(probability, proportion float64) models.LanguagePrediction {
    return models.LanguagePrediction{Probability: probability, Proportion: proportion}
}

func TestPredictLanguageNoDetections(t *testing.T) {
    if got := PredictLanguage("hau", nil); got != "hau" {
        t.Errorf("Expected 'hau', got '%s'", got)
    }
}

func TestPredictLanguageOnlyEnglish(t *testing.T) {
    predictions := map[string]models.LanguagePrediction{
        "eng": prediction(0.95, 1.0),
    }
    if got := PredictLanguage("fra", predictions); got != "eng" {
        t.Errorf("Expected 'eng' for a mislabeled page, got '%s'", got)
    }
    // An English site whose only detection is English is just English.
    if got := PredictLanguage("eng", predictions); got != "eng" {
        t.Errorf("Expected 'eng', got '%s'", got)
    }
}

func TestPredictLanguageMultiple(t *testing.T) {
    predictions := map[string]models.LanguagePrediction{
        "fra": prediction(0.95, 0.5),
        "eng": prediction(0.93, 0.4),
    }
    if got := PredictLanguage("fra", predictions); got != "mul" {
        t.Errorf("Expected 'mul' for two confident languages, got '%s'", got)
    }
}

func TestPredictLanguageDefaultsToSiteLabel(t *testing.T) {
    predictions := map[string]models.LanguagePrediction{
        "fra": prediction(0.95, 0.9),
        "eng": prediction(0.3, 0.02),
    }
    if got := PredictLanguage("fra", predictions); got != "fra" {
        t.Errorf("Expected 'fra', got '%s'", got)
    }
}

func TestConfidentSingleLanguage(t *testing.T) {
    predictions := map[string]models.LanguagePrediction{
        "fra": prediction(0.95, 0.95),
        "eng": prediction(0.3, 0.02),
    }
    if got := ConfidentSingleLanguage(predictions); got != "fra" {
        t.Errorf("Expected 'fra', got '%s'", got)
    }

    predictions["eng"] = prediction(0.95, 0.95)
    if got := ConfidentSingleLanguage(predictions); got != "" {
        t.Errorf("Expected no single confident language, got '%s'", got)
    }

    if got := ConfidentSingleLanguage(nil); got != "" {
        t.Errorf("Expected no confident language for empty detections, got '%s'", got)
    }
}

func TestFilterConfident(t *testing.T) {
    predictions := map[string]models.LanguagePrediction{
        "fra": prediction(0.95, 0.9),
        "eng": prediction(0.96, 0.01),
        "deu": prediction(0.04, 0.5),
    }
    confident := FilterConfident(predictions, ProbabilityThreshold, ProportionThreshold)
    if len(confident) != 1 {
        t.Errorf("Expected 1 confident language, got %d", len(confident))
    }
    if _, ok := confident["fra"]; !ok {
        t.Error("Expected 'fra' to survive the filter")
    }
}

func TestReasonableLen(t *testing.T) {
    // Without tokens, only the character count matters.
    if ReasonableLen(nil, 25, 10, 20) != true {
        t.Error("Expected 25 chars with no tokens to be reasonable")
    }
    if ReasonableLen(nil, 10, 10, 20) != false {
        t.Error("Expected 10 chars with no tokens to be unreasonable")
    }

    if ReasonableLen([][][]string{}, 1000, 10, 20) != false {
        t.Error("Expected zero paragraphs to be unreasonable")
    }
    if ReasonableLen([][][]string{{}}, 1000, 10, 20) != false {
        t.Error("Expected one sentence-free paragraph to be unreasonable")
    }

    short := [][][]string{{{"only", "five", "tokens", "right", "here"}}}
    if ReasonableLen(short, 1000, 10, 20) != false {
        t.Error("Expected one short sentence to be unreasonable")
    }

    long := [][][]string{{{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}}}
    if ReasonableLen(long, 0, 10, 20) != true {
        t.Error("Expected one long sentence to be reasonable")
    }

    two := [][][]string{{{"a"}}, {{"b"}}}
    if ReasonableLen(two, 0, 10, 20) != true {
        t.Error("Expected multiple paragraphs to be reasonable")
    }
}

func TestIdentifyEnglish(t *testing.T) {
    predictions := Identify("The quick brown fox jumps over the lazy dog and keeps running through the quiet English countryside.")
    english, ok := predictions["eng"]
    if !ok {
        t.Fatalf("Expected 'eng' among predictions, got %v", predictions)
    }
    if english.RawLanguage != "en" {
        t.Errorf("Expected raw language 'en', got '%s'", english.RawLanguage)
    }
    if english.Probability <= 0 {
        t.Errorf("Expected positive probability, got %f", english.Probability)
    }
}

func TestIdentifyEmpty(t *testing.T) {
    if predictions := Identify("   "); len(predictions) != 0 {
        t.Errorf("Expected no predictions for blank text, got %v", predictions)
    }
}

func TestFilterEnglishParagraphs(t *testing.T) {
    paragraphs := []string{
        "Le gouvernement a annoncé de nouvelles mesures économiques aujourd'hui à Paris.",
        "The quick brown fox jumps over the lazy dog and keeps running all day long.",
    }
    kept, removed := FilterEnglishParagraphs(paragraphs)
    if len(kept) != 1 {
        t.Fatalf("Expected 1 kept paragraph, got %d: %v", len(kept), kept)
    }
    if kept[0] != paragraphs[0] {
        t.Errorf("Expected the French paragraph to survive, got '%s'", kept[0])
    }
    if len(removed) != 1 {
        t.Fatalf("Expected 1 removed paragraph, got %d", len(removed))
    }
    if removed[0].Index != 1 {
        t.Errorf("Expected removed paragraph index 1, got %d", removed[0].Index)
    }
    if removed[0].Text != paragraphs[1] {
        t.Errorf("Expected removed text to be the English paragraph, got '%s'", removed[0].Text)
    }
}
