// Package history keeps a local log of swaps broadcast from this machine.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Swap statuses.
const (
	StatusSuccess  = "success"
	StatusReverted = "reverted"
	StatusPending  = "pending"
)

// Record is one executed swap.
type Record struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	ChainID    int64     `json:"chain_id"`
	Network    string    `json:"network"`
	Taker      string    `json:"taker"`
	SellSymbol string    `json:"sell_symbol"`
	SellAmount string    `json:"sell_amount"`
	BuySymbol  string    `json:"buy_symbol"`
	BuyAmount  string    `json:"buy_amount"`
	TxHash     string    `json:"tx_hash"`
	Status     string    `json:"status"`
}

// Store appends records to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore returns a store backed by the file at path. The file is created
// on first Append.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Append assigns an ID and timestamp when missing and persists r.
func (s *Store) Append(r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Time.IsZero() {
		r.Time = s.now().UTC()
	}

	records, err := s.load()
	if err != nil {
		return r, err
	}
	records = append(records, r)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return r, err
	}
	if err := s.replace(data); err != nil {
		return r, fmt.Errorf("writing history: %w", err)
	}
	return r, nil
}

// replace swaps in the new log through a temp file in the same dir, so an
// interrupted write leaves the previous log intact.
func (s *Store) replace(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// List returns up to limit records, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.Lock()
	records, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return records, nil
}
