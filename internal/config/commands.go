package config

// Op identifies a settings mutation. The set is closed: every user-facing
// toggle goes through Apply so the whole surface is testable without a UI.
type Op int

const (
	OpSetConfidence Op = iota
	OpSetLanguage
	OpToggleEnglish
	OpToggleLinebreaks
	OpToggleQRCodes
	OpToggleAppend
	OpToggleConfirmation
	OpToggleNotification
	OpToggleClipboardWatch
	OpTogglePause
)

// Command is one settings mutation. Value carries the confidence level for
// OpSetConfidence and the language tag for OpSetLanguage; it is ignored
// otherwise.
type Command struct {
	Op    Op
	Value string
}

// Apply returns the settings produced by applying cmd to s. Unknown ops and
// invalid values leave the settings unchanged.
func Apply(s Settings, cmd Command) Settings {
	switch cmd.Op {
	case OpSetConfidence:
		if c := Confidence(cmd.Value); c.valid() {
			s.Confidence = c
		}
	case OpSetLanguage:
		if cmd.Value != "" {
			s.Language = cmd.Value
		}
	case OpToggleEnglish:
		s.AlwaysDetectEnglish = !s.AlwaysDetectEnglish
	case OpToggleLinebreaks:
		s.KeepLinebreaks = !s.KeepLinebreaks
	case OpToggleQRCodes:
		s.DetectQRCodes = !s.DetectQRCodes
	case OpToggleAppend:
		s.Append = !s.Append
	case OpToggleConfirmation:
		s.Confirmation = !s.Confirmation
	case OpToggleNotification:
		s.Notification = !s.Notification
	case OpToggleClipboardWatch:
		s.DetectClipboard = !s.DetectClipboard
	case OpTogglePause:
		s.Paused = !s.Paused
	}
	return s
}
