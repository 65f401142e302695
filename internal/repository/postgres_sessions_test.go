package repository

import (
	"context"
	"testing"
	"time"

	"wisefido-session-safety/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleRecording() *domain.Recording {
	duration := 1800.5
	return &domain.Recording{
		RecordingID:  "rec-1",
		SessionID:    "sess-1",
		RecordingURL: "https://media.example.com/rec-1.webm",
		DurationSec:  &duration,
		CreatedAt:    time.Now(),
	}
}

func TestListSessionIDsBySubjectSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSessionsRepository(db, zap.NewNop())

	since := time.Now().Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{"session_id"}).
		AddRow("sess-old-but-in-window").
		AddRow("sess-new")

	mock.ExpectQuery(`SELECT session_id`).
		WithArgs("subject-1", since).
		WillReturnRows(rows)

	ids, err := repo.ListSessionIDsBySubjectSince(context.Background(), "subject-1", since)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-old-but-in-window", "sess-new"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessionIDsBySubjectSince_MissingSubject(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSessionsRepository(db, zap.NewNop())
	_, err = repo.ListSessionIDsBySubjectSince(context.Background(), "", time.Now())
	require.Error(t, err)
}

func TestCreateRecording(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRecordingsRepository(db, zap.NewNop())

	mock.ExpectExec(`INSERT INTO session_recordings`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.CreateRecording(context.Background(), sampleRecording())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRecording_MissingURL(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRecordingsRepository(db, zap.NewNop())
	rec := sampleRecording()
	rec.RecordingURL = ""
	require.Error(t, repo.CreateRecording(context.Background(), rec))
}
