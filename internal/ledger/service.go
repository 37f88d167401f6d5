package ledger

import (
	"fmt"
	"os"

	"github.com/finview-dev/finview/internal/model"
)

// Service loads transaction rows from a ledger export file.
type Service struct {
	path string
}

// NewService creates a ledger Service for the given export file.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Path returns the ledger file path.
func (s *Service) Path() string {
	return s.path
}

// Load reads the ledger and returns the settled rows. Rows with any
// other status are dropped; they never reach downstream aggregation.
// A missing or unreadable file is surfaced to the caller wrapping
// fs.ErrNotExist / fs.ErrPermission so it can decide fallback behavior.
func (s *Service) Load() ([]model.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}

	var settled []model.Transaction
	for _, tx := range rows {
		if tx.Status != model.StatusSettled {
			continue
		}
		settled = append(settled, tx)
	}
	return settled, nil
}
