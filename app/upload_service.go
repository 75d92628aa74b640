package app

import (
	"io"

	"edalens/adapters/excel"
	"edalens/domain/core"
	"edalens/internal"
	"edalens/internal/errors"
	"edalens/internal/metrics"
	"edalens/internal/session"
)

// UploadRecorder counts upload outcomes
type UploadRecorder func(outcome string, rows int)

// UploadService parses an uploaded file and installs the result in the caller's session
type UploadService struct {
	reader   *excel.DataReader
	sessions *session.Store
	logger   *internal.Logger
	record   UploadRecorder
}

// NewUploadService creates an upload service
func NewUploadService(reader *excel.DataReader, sessions *session.Store, logger *internal.Logger, record UploadRecorder) *UploadService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if record == nil {
		record = func(string, int) {}
	}
	return &UploadService{reader: reader, sessions: sessions, logger: logger, record: record}
}

// Upload replaces the session's table. On failure the session moves to the error state,
// keeps no table, and the returned error carries the user-facing message.
func (s *UploadService) Upload(id core.SessionID, fileName string, src io.Reader) (session.Session, error) {
	data, err := s.reader.ReadAll(src)
	if err != nil {
		return s.fail(id, fileName, err)
	}

	table, err := s.reader.Parse(fileName, data)
	if err != nil {
		return s.fail(id, fileName, err)
	}

	fingerprint := core.NewHash(data)
	sess := s.sessions.Load(id, fileName, fingerprint, table)
	s.record(metrics.OutcomeLoaded, table.Rows)
	s.logger.Info("[Upload] %s loaded into session %s (%d rows, %d columns, sha256 %s)",
		fileName, id, table.Rows, table.NumColumns(), fingerprint.Short())
	return sess, nil
}

func (s *UploadService) fail(id core.SessionID, fileName string, err error) (session.Session, error) {
	message := ErrorBanner(err)
	sess := s.sessions.Fail(id, fileName, message)
	s.record(metrics.OutcomeRejected, 0)
	s.logger.Warn("[Upload] %s rejected for session %s: %v", fileName, id, err)
	return sess, err
}

// ErrorBanner is the text shown when an upload cannot be parsed
func ErrorBanner(err error) string {
	return "Error loading file: " + errors.UserMessage(err)
}
