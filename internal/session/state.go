// Package session holds the per-browser dashboard state: the uploaded table
// and its file name. State lives only as long as its store's TTL and is
// cleared explicitly by Reset.
package session

import (
	"context"
	"errors"
	"time"

	"supernova/pkg/contracts/domain"
)

// CookieName carries the session id between requests
const CookieName = "supernova_session"

// ErrNotFound is returned when a session has no stored state, either because
// nothing was uploaded yet or because it was reset or expired.
var ErrNotFound = errors.New("session not found")

// State is everything the dashboard remembers between interactions
type State struct {
	ID         string                  `json:"id"`
	FileName   string                  `json:"file_name"`
	UploadedAt time.Time               `json:"uploaded_at"`
	Table      *domain.AnnotationTable `json:"table"`
}

// NewState returns the state of a fresh upload
func NewState(id, fileName string, table *domain.AnnotationTable, now time.Time) *State {
	return &State{ID: id, FileName: fileName, UploadedAt: now.UTC(), Table: table}
}

// HasUpload reports whether a table has been uploaded into this state
func (s *State) HasUpload() bool {
	return s != nil && s.Table != nil
}

// Store persists State by session id
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	Reset(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
