// Package dispatcher is the event loop at the heart of the daemon. It
// receives screenshot and clipboard events, consults the seen-image
// registry, runs recognition, applies the detection policy and commits the
// result to the clipboard.
package dispatcher

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/textsnap/textsnap-daemon/internal/config"
	"github.com/textsnap/textsnap-daemon/internal/detect"
	"github.com/textsnap/textsnap-daemon/internal/imaging"
	"github.com/textsnap/textsnap-daemon/internal/notify"
	"github.com/textsnap/textsnap-daemon/internal/pasteboard"
	"github.com/textsnap/textsnap-daemon/internal/recognition"
	"github.com/textsnap/textsnap-daemon/internal/registry"
	"github.com/textsnap/textsnap-daemon/internal/storage"
	"github.com/textsnap/textsnap-daemon/internal/watcher"
	"github.com/textsnap/textsnap-daemon/pkg/utils"
)

// SettingsStore persists settings after every mutation.
type SettingsStore interface {
	Save(config.Settings) error
}

// HistoryStore records processed detections. Optional; nil disables history.
type HistoryStore interface {
	SaveDetection(*storage.DetectionRecord) error
}

// Options wires a Dispatcher.
type Options struct {
	Settings config.Settings
	Store    SettingsStore
	Gateway  recognition.Gateway
	Board    pasteboard.Board
	Notifier notify.Notifier
	History  HistoryStore
	Logger   *zap.Logger
	Events   <-chan watcher.Event
	Interval time.Duration // clipboard poll interval
}

// Dispatcher owns all mutable pipeline state. The registry, settings and
// clipboard are only touched from the Run goroutine; external calls are
// marshalled onto it through the ops channel.
type Dispatcher struct {
	settings config.Settings
	store    SettingsStore
	reg      *registry.Registry
	gateway  recognition.Gateway
	board    pasteboard.Board
	notifier notify.Notifier
	history  HistoryStore
	logger   *zap.Logger

	events   <-chan watcher.Event
	ops      chan func()
	interval time.Duration

	gathered        bool
	lastChangeCount int64
}

// New creates a dispatcher. Run must be called for events to be handled.
func New(opts Options) *Dispatcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Dispatcher{
		settings: opts.Settings,
		store:    opts.Store,
		reg:      registry.New(),
		gateway:  opts.Gateway,
		board:    opts.Board,
		notifier: opts.Notifier,
		history:  opts.History,
		logger:   opts.Logger,
		events:   opts.Events,
		ops:      make(chan func()),
		interval: interval,
	}
}

// Run dispatches events until ctx is cancelled. All state mutation happens
// on this goroutine; handlers run to completion without preemption.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.handleEvent(ev)
		case <-ticker.C:
			d.checkClipboard()
		case fn := <-d.ops:
			fn()
		}
	}
}

// Apply mutates the settings through the closed command set and persists
// them. Pause is runtime-only and not written back.
func (d *Dispatcher) Apply(ctx context.Context, cmd config.Command) {
	select {
	case d.ops <- func() { d.apply(cmd) }:
	case <-ctx.Done():
	}
}

// DetectInFile runs detection on an explicit image file. This user-driven
// path bypasses both pause and the seen-image registry.
func (d *Dispatcher) DetectInFile(ctx context.Context, path string) (string, error) {
	type result struct {
		text string
		err  error
	}
	reply := make(chan result, 1)

	select {
	case d.ops <- func() {
		text, err := d.handleManual(path)
		reply <- result{text, err}
	}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-reply:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ClearClipboard empties the clipboard.
func (d *Dispatcher) ClearClipboard(ctx context.Context) {
	select {
	case d.ops <- func() {
		d.board.Clear()
		d.lastChangeCount = d.board.ChangeCount()
	}:
	case <-ctx.Done():
	}
}

// Settings returns a snapshot of the live settings.
func (d *Dispatcher) Settings(ctx context.Context) config.Settings {
	reply := make(chan config.Settings, 1)
	select {
	case d.ops <- func() { reply <- d.settings }:
	case <-ctx.Done():
		return config.Settings{}
	}
	select {
	case s := <-reply:
		return s
	case <-ctx.Done():
		return config.Settings{}
	}
}

func (d *Dispatcher) apply(cmd config.Command) {
	d.settings = config.Apply(d.settings, cmd)
	d.logger.Info("Settings updated", zap.Int("op", int(cmd.Op)), zap.String("value", cmd.Value))

	if cmd.Op == config.OpTogglePause {
		// pause is session state only
		return
	}
	if err := d.store.Save(d.settings); err != nil {
		d.logger.Error("Failed to save settings", zap.Error(err))
	}
}

func (d *Dispatcher) handleEvent(ev watcher.Event) {
	switch ev.Type {
	case watcher.Gathered:
		ids := make([]string, 0, len(ev.Paths))
		for _, path := range ev.Paths {
			ids = append(ids, registry.Identity(path))
		}
		d.reg.MarkGathered(ids)
		d.gathered = true
		d.logger.Info("Gathering finished", zap.Int("existing", len(ids)))
	case watcher.Updated:
		if !d.gathered {
			d.logger.Debug("Ignoring update before gathering finished")
			return
		}
		for _, path := range ev.Paths {
			d.processScreenshot(path)
		}
	}
}

func (d *Dispatcher) processScreenshot(path string) {
	id := registry.Identity(path)
	if d.reg.Seen(id) {
		// duplicate notification from the watch mechanism
		return
	}

	if d.settings.Paused {
		d.logger.Info("Skipping screenshot while paused", zap.String("path", path))
		d.reg.Record(id, registry.OutcomeSkipped)
		return
	}

	d.logger.Info("Processing new screenshot", zap.String("path", path))

	img, data, err := imaging.LoadFile(path)
	if err != nil {
		// not marked seen so a duplicate notification can retry
		d.logger.Error("Failed to load screenshot", zap.String("path", path), zap.Error(err))
		return
	}

	text := d.processImage(img, data, storage.SourceScreenshot, path)
	d.reg.Record(id, registry.Outcome(text))

	if d.settings.Notification {
		d.notifier.Notify("Processed Screenshot", path, resultMessage(text))
	}
}

func (d *Dispatcher) checkClipboard() {
	if !d.settings.DetectClipboard {
		return
	}

	count := d.board.ChangeCount()
	if count == d.lastChangeCount {
		return
	}
	d.lastChangeCount = count

	if !d.board.HasImage() {
		return
	}
	d.logger.Info("New image on clipboard")

	if d.settings.Paused {
		d.logger.Info("Skipping clipboard image while paused")
		return
	}

	data := d.board.GetImageData()
	img, err := imaging.Decode(data)
	if err != nil {
		d.logger.Error("Failed to decode clipboard image", zap.Error(err))
		return
	}

	text := d.processImage(img, data, storage.SourceClipboard, "")
	if d.settings.Notification {
		d.notifier.Notify("Processed Clipboard Image", "", resultMessage(text))
	}
}

func (d *Dispatcher) handleManual(path string) (string, error) {
	d.logger.Info("Processing image on request", zap.String("path", path))

	img, data, err := imaging.LoadFile(path)
	if err != nil {
		return "", err
	}

	text := d.processImage(img, data, storage.SourceManual, path)
	if d.settings.Notification {
		d.notifier.Notify("Processed Image", path, resultMessage(text))
	}
	return text, nil
}

// processImage runs the detect→policy→commit pipeline on a decoded image
// and returns the detected text ("" when nothing was found). Recognition
// errors degrade to "no text"; they never propagate.
func (d *Dispatcher) processImage(img image.Image, raw []byte, source storage.Source, path string) string {
	frags, err := d.gateway.DetectText(img, recognition.TextOptions{
		Languages: d.settings.RecognitionLanguages(),
	})
	if err != nil {
		d.logger.Error("Text recognition failed", zap.Error(err))
		frags = nil
	}

	var payloads []string
	if d.settings.DetectQRCodes {
		payloads, err = d.gateway.DetectQRCodes(img)
		if err != nil {
			d.logger.Error("QR detection failed", zap.Error(err))
			payloads = nil
		}
	}

	current := ""
	if d.settings.Append && d.board.HasText() {
		current = d.board.GetText()
	}

	decision := detect.Evaluate(d.settings, frags, payloads, current)
	if decision.Empty() {
		return ""
	}

	if decision.NeedsConfirmation {
		verb := "Copy"
		if d.settings.Append {
			verb = "Append"
		}
		approved, err := d.notifier.Confirm(verb+" detected text to clipboard?", decision.Text)
		if err != nil {
			d.logger.Error("Confirmation dialog failed", zap.Error(err))
			approved = false
		}
		if approved {
			d.commit(decision.ClipboardText)
		}
	} else {
		d.commit(decision.ClipboardText)
	}

	d.recordHistory(img, raw, source, path, decision.Text)
	return decision.Text
}

func (d *Dispatcher) commit(text string) {
	d.board.SetText(text)
	d.lastChangeCount = d.board.ChangeCount()
}

func (d *Dispatcher) recordHistory(img image.Image, raw []byte, source storage.Source, path string, text string) {
	if d.history == nil {
		return
	}
	rec := &storage.DetectionRecord{
		Hash:           utils.HashContent(raw),
		Source:         source,
		Path:           path,
		Text:           text,
		PerceptualHash: imaging.PerceptualHash(img),
	}
	if err := d.history.SaveDetection(rec); err != nil {
		d.logger.Error("Failed to record detection", zap.Error(err))
	}
}

func resultMessage(text string) string {
	if text == "" {
		return "No text detected"
	}
	return "Detected text: " + text
}
