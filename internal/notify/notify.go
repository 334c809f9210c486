// Package notify raises user-facing notifications and confirmation
// dialogs. The default implementation uses the host dialog service via
// zenity; headless environments get a log-only fallback.
package notify

import (
	"errors"

	"github.com/ncruces/zenity"
	"go.uber.org/zap"
)

// Notifier is the user-facing notification and confirmation surface.
type Notifier interface {
	// Notify emits a fire-and-forget notification.
	Notify(title, subtitle, message string)

	// Confirm blocks on a yes/no dialog and reports the user's answer.
	Confirm(title, message string) (bool, error)
}

// ZenityNotifier shows native desktop dialogs.
type ZenityNotifier struct {
	logger *zap.Logger
}

// NewZenityNotifier creates a notifier using the host dialog service.
func NewZenityNotifier(logger *zap.Logger) *ZenityNotifier {
	return &ZenityNotifier{logger: logger}
}

func (n *ZenityNotifier) Notify(title, subtitle, message string) {
	text := message
	if subtitle != "" {
		text = subtitle + "\n" + message
	}
	if err := zenity.Notify(text, zenity.Title(title)); err != nil {
		n.logger.Warn("Failed to deliver notification", zap.Error(err))
	}
}

func (n *ZenityNotifier) Confirm(title, message string) (bool, error) {
	err := zenity.Question(message,
		zenity.Title(title),
		zenity.OKLabel("Yes"),
		zenity.CancelLabel("No"))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return false, err
}

// LogNotifier logs notifications instead of displaying them and approves
// every confirmation, so a headless daemon still commits detections.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates the headless fallback notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(title, subtitle, message string) {
	n.logger.Info("Notification",
		zap.String("title", title),
		zap.String("subtitle", subtitle),
		zap.String("message", message))
}

func (n *LogNotifier) Confirm(title, message string) (bool, error) {
	n.logger.Info("Confirmation auto-approved (headless)",
		zap.String("title", title))
	return true, nil
}
