package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edalens/adapters/excel"
	"edalens/domain/core"
	"edalens/internal/errors"
	"edalens/internal/metrics"
	"edalens/internal/session"
)

type recorded struct {
	outcome string
	rows    int
}

func newUploadService(t *testing.T, maxBytes int64) (*UploadService, *session.Store, *[]recorded) {
	t.Helper()
	var calls []recorded
	store := session.NewStore(time.Hour, nil)
	reader := excel.NewDataReader(excel.ReaderConfig{MaxBytes: maxBytes}, nil)
	svc := NewUploadService(reader, store, nil, func(outcome string, rows int) {
		calls = append(calls, recorded{outcome, rows})
	})
	return svc, store, &calls
}

func TestUploadLoadsTable(t *testing.T) {
	svc, store, calls := newUploadService(t, 1<<20)
	id := core.NewSessionID()

	sess, err := svc.Upload(id, "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)
	assert.Equal(t, session.StateLoaded, sess.State)
	assert.Equal(t, 5, sess.Table.Rows)
	assert.Equal(t, core.NewHash([]byte(salesCSV)), sess.Fingerprint)

	stored, ok := store.Get(id)
	require.True(t, ok)
	assert.True(t, stored.HasTable())
	assert.Equal(t, []recorded{{metrics.OutcomeLoaded, 5}}, *calls)
}

func TestUploadFailureClearsPreviousTable(t *testing.T) {
	svc, store, calls := newUploadService(t, 1<<20)
	id := core.NewSessionID()

	_, err := svc.Upload(id, "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	sess, err := svc.Upload(id, "broken.csv", strings.NewReader("a,b\n1,2\n1,2,3\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
	assert.Equal(t, session.StateError, sess.State)
	assert.Equal(t, "Error loading file: Error tokenizing data. Expected 2 fields in line 3, saw 3", sess.Err)
	assert.False(t, sess.HasTable())

	stored, _ := store.Get(id)
	assert.False(t, stored.HasTable())
	assert.Equal(t, metrics.OutcomeRejected, (*calls)[1].outcome)
}

func TestUploadTooLarge(t *testing.T) {
	svc, _, _ := newUploadService(t, 8)

	sess, err := svc.Upload(core.NewSessionID(), "big.csv", strings.NewReader(salesCSV))
	require.Error(t, err)
	assert.Equal(t, errors.CodeUploadTooLarge, errors.GetCode(err))
	assert.Equal(t, session.StateError, sess.State)
}

func TestErrorBanner(t *testing.T) {
	assert.Equal(t, "Error loading file: No columns to parse from file",
		ErrorBanner(errors.ParseError("No columns to parse from file", nil)))
}
