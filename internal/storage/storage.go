package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes
const (
	analysisPrefix = "analysis:"
	bookPrefix     = "book:"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// AnalysisRecord is one completed analysis, keyed by position and
// depth. The journal is write-behind only: a live search never reads
// from it.
type AnalysisRecord struct {
	FEN       string        `json:"fen"`
	Depth     int           `json:"depth"`
	Score     int           `json:"score"`
	BestMove  string        `json:"best_move"`
	PV        []string      `json:"pv,omitempty"`
	Nodes     uint64        `json:"nodes"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the store in the platform data directory.
func OpenDefault() (*Store, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func analysisKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%s:%d", analysisPrefix, fen, depth))
}

// SaveAnalysis records a completed analysis, overwriting any earlier
// record for the same position and depth.
func (s *Store) SaveAnalysis(rec *AnalysisRecord) error {
	if rec.FEN == "" {
		return errors.New("storage: analysis record has no FEN")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(rec.FEN, rec.Depth), data)
	})
}

// LoadAnalysis returns the stored analysis for a position and depth,
// or ErrNotFound.
func (s *Store) LoadAnalysis(fen string, depth int) (*AnalysisRecord, error) {
	var rec AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(fen, depth))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecentAnalyses returns up to limit records, newest first. A limit
// of zero or less means all of them.
func (s *Store) RecentAnalyses(limit int) ([]AnalysisRecord, error) {
	var recs []AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(analysisPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec AnalysisRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// SaveBookLine stores an opening line under a name so imported lines
// survive restarts.
func (s *Store) SaveBookLine(name, line string) error {
	if name == "" {
		return errors.New("storage: book line has no name")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(bookPrefix+name), []byte(line))
	})
}

// LoadBookLines returns all stored opening lines sorted by name.
func (s *Store) LoadBookLines() ([]string, error) {
	type namedLine struct {
		name string
		line string
	}
	var lines []namedLine

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := string(item.Key()[len(bookPrefix):])
			err := item.Value(func(val []byte) error {
				lines = append(lines, namedLine{name: name, line: string(val)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })
	out := make([]string, len(lines))
	for i, nl := range lines {
		out[i] = nl.line
	}
	return out, nil
}
