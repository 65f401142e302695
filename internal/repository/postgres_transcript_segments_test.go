package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wisefido-session-safety/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSegmentsRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresTranscriptSegmentsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresTranscriptSegmentsRepository(db, zap.NewNop())
	return db, mock, repo
}

func sampleSegment() *domain.TranscriptSegment {
	return &domain.TranscriptSegment{
		SegmentID: "seg-1",
		SessionID: "sess-1",
		Speaker:   domain.SpeakerPatient,
		Text:      "I feel anxious today.",
		StartTime: 0,
		EndTime:   2,
		Region:    domain.RegionUS,
		CreatedAt: time.Now(),
	}
}

func TestCreateSegmentWithRisks_SegmentAndEventsInOneTx(t *testing.T) {
	db, mock, repo := setupSegmentsRepo(t)
	defer db.Close()

	seg := sampleSegment()
	events := []domain.RiskEvent{
		{
			EventID:     "ev-1",
			SessionID:   "sess-1",
			SegmentID:   "seg-1",
			Category:    domain.CategoryAnxiety,
			Severity:    domain.SeverityLow,
			MatchedText: "anxious",
			DetectedAt:  time.Now(),
			CreatedAt:   time.Now(),
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transcript_segments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO risk_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateSegmentWithRisks(context.Background(), seg, events)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSegmentWithRisks_NoEvents(t *testing.T) {
	db, mock, repo := setupSegmentsRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transcript_segments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateSegmentWithRisks(context.Background(), sampleSegment(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSegmentWithRisks_RollbackOnEventFailure(t *testing.T) {
	db, mock, repo := setupSegmentsRepo(t)
	defer db.Close()

	events := []domain.RiskEvent{{EventID: "ev-1", SessionID: "sess-1", SegmentID: "seg-1"}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transcript_segments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO risk_events`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreateSegmentWithRisks(context.Background(), sampleSegment(), events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert risk event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSegmentWithRisks_MissingSessionID(t *testing.T) {
	db, _, repo := setupSegmentsRepo(t)
	defer db.Close()

	seg := sampleSegment()
	seg.SessionID = ""
	err := repo.CreateSegmentWithRisks(context.Background(), seg, nil)
	require.Error(t, err)
}

func TestListBySession_OrderedWithNullableSentiment(t *testing.T) {
	db, mock, repo := setupSegmentsRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"segment_id", "session_id", "speaker", "text",
		"start_time", "end_time", "sentiment_score", "region", "created_at",
	}).
		AddRow("seg-1", "sess-1", "patient", "Hello.", 0.0, 2.0, nil, "us", now).
		AddRow("seg-2", "sess-1", "provider", "Hi there.", 2.0, 4.0, 0.4, "us", now)

	mock.ExpectQuery(`SELECT`).
		WithArgs("sess-1").
		WillReturnRows(rows)

	segments, err := repo.ListBySession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, "seg-1", segments[0].SegmentID)
	assert.Nil(t, segments[0].SentimentScore)
	assert.Equal(t, domain.SpeakerProvider, segments[1].Speaker)
	require.NotNil(t, segments[1].SentimentScore)
	assert.Equal(t, 0.4, *segments[1].SentimentScore)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySession_MissingSessionID(t *testing.T) {
	db, _, repo := setupSegmentsRepo(t)
	defer db.Close()

	_, err := repo.ListBySession(context.Background(), "")
	require.Error(t, err)
}
