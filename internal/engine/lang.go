package engine

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// langSampleRunes bounds how much text is handed to the detector.
const langSampleRunes = 2000

var (
	langDetector     lingua.LanguageDetector
	langDetectorOnce sync.Once
)

// detectorLanguages limits lingua's model set; loading every language costs ~1 GB.
var detectorLanguages = []lingua.Language{
	lingua.English, lingua.French, lingua.German, lingua.Spanish, lingua.Portuguese,
	lingua.Italian, lingua.Dutch, lingua.Russian, lingua.Ukrainian, lingua.Polish,
	lingua.Turkish, lingua.Arabic, lingua.Hindi, lingua.Japanese, lingua.Korean,
	lingua.Chinese,
}

func detector() lingua.LanguageDetector {
	langDetectorOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectorLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return langDetector
}

// DetectLanguage returns the lowercase ISO 639-1 code of text, or "" when unsure.
func DetectLanguage(text string) string {
	sample := TruncateRunes(strings.TrimSpace(text), langSampleRunes, "")
	if sample == "" {
		return ""
	}
	lang, ok := detector().DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
