// Package storage persists detection results to a local BoltDB database.
// Records are deduplicated by image content hash; repeated captures of the
// same content are tracked as occurrences instead of new rows.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	detectionBucket = "detections"
	maxOccurrences  = 1000 // occurrences kept per record
	defaultKeep     = 50   // records kept when pruning
)

// Source identifies which pipeline produced a detection.
type Source string

const (
	SourceScreenshot Source = "screenshot"
	SourceClipboard  Source = "clipboard"
	SourceManual     Source = "manual"
)

// DetectionRecord is one stored detection result.
type DetectionRecord struct {
	Hash           string      `json:"hash"` // SHA-256 of the image bytes
	Source         Source      `json:"source"`
	Path           string      `json:"path,omitempty"` // empty for clipboard images
	Text           string      `json:"text"`
	PerceptualHash string      `json:"perceptual_hash,omitempty"`
	Created        time.Time   `json:"created"`
	Occurrences    []time.Time `json:"occurrences"`
}

// Config holds BoltStorage initialization options.
type Config struct {
	DBPath    string
	MaxSize   int64 // database file size that forces a prune, 0 disables
	KeepItems int
	Logger    *zap.Logger
}

// BoltStorage implements the detection history store on bbolt.
type BoltStorage struct {
	db        *bbolt.DB
	maxSize   int64
	keepItems int
	logger    *zap.Logger
}

// NewBoltStorage opens (or creates) the history database.
func NewBoltStorage(cfg Config) (*BoltStorage, error) {
	keep := cfg.KeepItems
	if keep <= 0 {
		keep = defaultKeep
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(detectionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	logger.Debug("Detection store initialized", zap.String("db_path", cfg.DBPath))

	return &BoltStorage{db: db, maxSize: cfg.MaxSize, keepItems: keep, logger: logger}, nil
}

// SaveDetection stores a detection result. A record with the same image
// hash gets a new occurrence rather than a duplicate row. The history is
// pruned once it outgrows the keep limit or the size budget.
func (s *BoltStorage) SaveDetection(rec *DetectionRecord) error {
	now := time.Now()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(detectionBucket))

		if v := b.Get([]byte(rec.Hash)); v != nil {
			var existing DetectionRecord
			if err := json.Unmarshal(v, &existing); err == nil {
				existing.Occurrences = append(existing.Occurrences, now)
				sort.Slice(existing.Occurrences, func(i, j int) bool {
					return existing.Occurrences[i].After(existing.Occurrences[j])
				})
				if len(existing.Occurrences) > maxOccurrences {
					existing.Occurrences = existing.Occurrences[:maxOccurrences]
				}
				existing.Created = existing.Occurrences[0]
				existing.Text = rec.Text

				s.logger.Debug("Updated detection occurrences",
					zap.String("hash", existing.Hash),
					zap.Int("occurrence_count", len(existing.Occurrences)))

				encoded, err := json.Marshal(existing)
				if err != nil {
					return fmt.Errorf("failed to marshal updated record: %w", err)
				}
				return b.Put([]byte(rec.Hash), encoded)
			}
		}

		rec.Created = now
		rec.Occurrences = []time.Time{now}

		s.logger.Debug("New detection stored",
			zap.String("hash", rec.Hash),
			zap.String("source", string(rec.Source)))

		encoded, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		return b.Put([]byte(rec.Hash), encoded)
	})
	if err != nil {
		return err
	}

	s.maybePrune()
	return nil
}

// GetLatest returns the most recently seen detection, or nil if the store
// is empty.
func (s *BoltStorage) GetLatest() (*DetectionRecord, error) {
	records, err := s.GetHistory(0)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// GetHistory returns detection records, newest first. limit <= 0 returns
// everything.
func (s *BoltStorage) GetHistory(limit int) ([]*DetectionRecord, error) {
	var records []*DetectionRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(detectionBucket))
		return b.ForEach(func(k, v []byte) error {
			var rec DetectionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.After(records[j].Created)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// maybePrune trims the history after a save if it grew past the keep
// limit, or halves it when the database file outgrew its size budget
// before the keep limit was reached.
func (s *BoltStorage) maybePrune() {
	var keys int
	var size int64
	s.db.View(func(tx *bbolt.Tx) error {
		keys = tx.Bucket([]byte(detectionBucket)).Stats().KeyN
		size = tx.Size()
		return nil
	})

	keep := s.keepItems
	if s.maxSize > 0 && size > s.maxSize && keys/2 < keep {
		keep = keys / 2
		if keep < 1 {
			keep = 1
		}
	}
	if keys <= keep {
		return
	}

	if err := s.pruneTo(keep); err != nil {
		s.logger.Error("Failed to prune detection history", zap.Error(err))
	}
}

// Prune deletes all but the newest keepItems records.
func (s *BoltStorage) Prune() error {
	return s.pruneTo(s.keepItems)
}

func (s *BoltStorage) pruneTo(keep int) error {
	records, err := s.GetHistory(0)
	if err != nil {
		return err
	}
	if len(records) <= keep {
		return nil
	}

	excess := records[keep:]
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(detectionBucket))
		for _, rec := range excess {
			if err := b.Delete([]byte(rec.Hash)); err != nil {
				return err
			}
		}
		s.logger.Debug("Pruned detection history", zap.Int("deleted", len(excess)))
		return nil
	})
}

// Close closes the database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
