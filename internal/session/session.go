package session

import (
	"time"

	"edalens/domain/core"
	"edalens/domain/dataset"
)

// State of a session's dataset slot
type State string

const (
	StateEmpty  State = "empty"
	StateLoaded State = "loaded"
	StateError  State = "error"
)

// Session holds at most one uploaded table. Values handed out by the store are snapshots;
// the table itself is immutable and shared.
type Session struct {
	ID          core.SessionID
	State       State
	Table       *dataset.Table
	FileName    string
	Fingerprint core.Hash
	Err         string
	LoadedAt    time.Time
	LastSeen    time.Time
}

// HasTable reports whether a dataset is loaded
func (s Session) HasTable() bool {
	return s.State == StateLoaded && s.Table != nil
}
