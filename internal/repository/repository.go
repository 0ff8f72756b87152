// Package repository is the only code that talks to the ledger tables. Row
// shapes go through typed entities at this boundary; nothing above it sees a
// raw row.
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
)

var (
	// ErrNotFound is returned by id lookups and updates that match no row.
	// Callers treat it as a state, not a failure.
	ErrNotFound = errors.New("record not found")
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 1000
)

// clampPage applies the shared pagination bounds.
func clampPage(f model.PageFilter) (limit, offset int) {
	limit = f.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// likePattern normalizes a search query for case-insensitive substring
// matching. Empty means "no filter".
func likePattern(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	return "%" + q + "%", true
}

// todayAD is today's AD date in Kathmandu, the default transaction date.
func todayAD() string {
	return time.Now().In(nepali.Kathmandu).Format("2006-01-02")
}

// nowTimestamp matches the storage-engine datetime('now') format.
func nowTimestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
