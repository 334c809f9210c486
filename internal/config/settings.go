package config

// Confidence is the minimum per-fragment confidence a recognized text span
// must have to be kept.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// LanguageEnglish is the fallback recognition language.
const LanguageEnglish = "en-US"

// Threshold returns the numeric confidence threshold. Unknown values fall
// back to LOW.
func (c Confidence) Threshold() float64 {
	switch c {
	case ConfidenceMedium:
		return 0.5
	case ConfidenceHigh:
		return 0.8
	default:
		return 0.3
	}
}

func (c Confidence) valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// Settings is the mutable detection configuration. It is a plain value
// type: the dispatcher owns the live copy and writes it back through the
// Store after every mutation.
type Settings struct {
	Confidence          Confidence `yaml:"confidence"`
	Language            string     `yaml:"language"`
	AlwaysDetectEnglish bool       `yaml:"always_detect_english"`
	KeepLinebreaks      bool       `yaml:"linebreaks"`
	DetectQRCodes       bool       `yaml:"detect_qrcodes"`
	Append              bool       `yaml:"append"`
	Confirmation        bool       `yaml:"confirmation"`
	Notification        bool       `yaml:"notification"`
	DetectClipboard     bool       `yaml:"detect_clipboard"`

	// Paused suspends screenshot processing only; it is runtime state and
	// not persisted.
	Paused bool `yaml:"-"`
}

// DefaultSettings mirrors the defaults the original menu state started with.
func DefaultSettings() Settings {
	return Settings{
		Confidence:          ConfidenceLow,
		Language:            LanguageEnglish,
		AlwaysDetectEnglish: true,
		KeepLinebreaks:      true,
		DetectQRCodes:       false,
		Append:              false,
		Confirmation:        false,
		Notification:        true,
		DetectClipboard:     true,
	}
}

// normalized fills in zero values left by a partial config file.
func (s Settings) normalized() Settings {
	if !s.Confidence.valid() {
		s.Confidence = ConfidenceLow
	}
	if s.Language == "" {
		s.Language = LanguageEnglish
	}
	return s
}

// RecognitionLanguages returns the ordered language list passed to the
// recognition gateway: the primary language plus an English fallback when
// "always detect English" is set and the primary isn't already English.
func (s Settings) RecognitionLanguages() []string {
	if s.AlwaysDetectEnglish && s.Language != LanguageEnglish {
		return []string{s.Language, LanguageEnglish}
	}
	return []string{s.Language}
}
