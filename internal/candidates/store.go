package candidates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// Store reads and writes candidates/candidates.csv under a repo root.
type Store struct {
	repoRoot string
}

// NewStore creates a Store for a repo root.
func NewStore(repoRoot string) *Store {
	return &Store{repoRoot: repoRoot}
}

// Path returns the candidate file location.
func (s *Store) Path() string {
	return filepath.Join(s.repoRoot, "candidates", "candidates.csv")
}

// Read returns all stored records, or nil if the store does not exist yet.
func (s *Store) Read() ([]Record, error) {
	f, err := os.Open(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening candidate store: %w", err)
	}
	defer f.Close()

	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading candidate store: %w", err)
	}
	return recs, nil
}

// Write replaces the store contents with the given records.
func (s *Store) Write(recs []Record) error {
	dir := filepath.Dir(s.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating candidates dir: %w", err)
	}

	f, err := os.Create(s.Path())
	if err != nil {
		return fmt.Errorf("creating candidate store: %w", err)
	}
	defer f.Close()

	if err := WriteRecords(f, recs); err != nil {
		return fmt.Errorf("writing candidate store: %w", err)
	}
	return nil
}

// Upsert merges a detection run into the store: an existing merchant key is
// updated in place (keeping its ID), a new one is inserted with a fresh ID.
// Records are kept sorted by merchant key. Returns insert/update counts.
func (s *Store) Upsert(cands []model.SubscriptionCandidate) (inserted, updated int, err error) {
	recs, err := s.Read()
	if err != nil {
		return 0, 0, err
	}

	byKey := make(map[string]int, len(recs))
	for i, rec := range recs {
		byKey[rec.MerchantKey] = i
	}

	for _, cand := range cands {
		if i, ok := byKey[cand.MerchantKey]; ok {
			recs[i].SubscriptionCandidate = cand
			updated++
			continue
		}
		recs = append(recs, Record{
			ID:                    MakeID(cand.LastCharge, cand.MerchantKey),
			SubscriptionCandidate: cand,
		})
		byKey[cand.MerchantKey] = len(recs) - 1
		inserted++
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].MerchantKey < recs[j].MerchantKey
	})

	if err := s.Write(recs); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}
