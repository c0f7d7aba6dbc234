package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRecorderDirectInsertWithoutQueue(t *testing.T) {
	repo := &fakeRepo{}
	rec := NewRecorder(nil, repo, nil)

	err := rec.Record(context.Background(), Entry{Type: TypeProductArchived, Actor: "alice"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.NotEqual(t, uuid.Nil, repo.entries[0].ID)
	require.False(t, repo.entries[0].CreatedAt.IsZero())
}

func TestRecorderNotConfigured(t *testing.T) {
	var rec *Recorder
	require.Error(t, rec.Record(context.Background(), Entry{Type: TypeProductArchived, Actor: "a"}))
}

func TestRecordTaskRoundTrip(t *testing.T) {
	entry := Entry{ID: uuid.New(), Type: TypeProductRestored, ItemID: "x", Actor: "bob"}
	task, err := NewRecordTask(entry)
	require.NoError(t, err)
	require.Equal(t, TaskRecord, task.Type())

	repo := &fakeRepo{}
	handler := NewRecordHandler(repo)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, repo.entries, 1)
	require.Equal(t, entry.ID, repo.entries[0].ID)
}
