package service

import (
	"context"
	"errors"
	"testing"

	"wisefido-session-safety/internal/detector"
	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/lexicon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSegmentsRepo 内存片段仓库，记录每次落库调用
type fakeSegmentsRepo struct {
	segments []domain.TranscriptSegment
	events   []domain.RiskEvent
	failOn   map[string]error // 按片段文本触发落库失败
}

func newFakeSegmentsRepo() *fakeSegmentsRepo {
	return &fakeSegmentsRepo{failOn: map[string]error{}}
}

func (f *fakeSegmentsRepo) CreateSegmentWithRisks(_ context.Context, segment *domain.TranscriptSegment, events []domain.RiskEvent) error {
	if err, ok := f.failOn[segment.Text]; ok {
		return err
	}
	f.segments = append(f.segments, *segment)
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeSegmentsRepo) ListBySession(_ context.Context, sessionID string) ([]domain.TranscriptSegment, error) {
	var out []domain.TranscriptSegment
	for _, seg := range f.segments {
		if seg.SessionID == sessionID {
			out = append(out, seg)
		}
	}
	return out, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func newTestIngestService(repo *fakeSegmentsRepo, tr Transcriber) IngestService {
	det := detector.New(lexicon.Default())
	return NewIngestService(repo, det, nil, tr, zap.NewNop())
}

func TestIngest_DetectsRiskInBatch(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, nil)

	result, err := svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Segments: []SegmentInput{
			{Speaker: "provider", Text: "How are you feeling today?", StartTime: 0, EndTime: 2},
			{Speaker: "patient", Text: "I don't want to live anymore.", StartTime: 2, EndTime: 5},
			{Speaker: "provider", Text: "Thank you for telling me.", StartTime: 5, EndTime: 7},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Saved)
	assert.Equal(t, 1, result.RiskDetected)

	require.Len(t, repo.events, 1)
	event := repo.events[0]
	assert.Equal(t, domain.CategorySuicide, event.Category)
	assert.Equal(t, domain.SeverityHigh, event.Severity)
	assert.Equal(t, "don't want to live", event.MatchedText)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, repo.segments[1].SegmentID, event.SegmentID)
}

func TestIngest_MultiCategorySegmentCountedOnce(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, nil)

	result, err := svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Segments: []SegmentInput{
			{Speaker: "patient", Text: "I feel hopeless and I started drinking again.", StartTime: 0, EndTime: 4},
		},
	})
	require.NoError(t, err)

	// 一个片段命中多个分类：riskDetected 仍按片段计 1，事件按分类各出一条
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.RiskDetected)
	assert.GreaterOrEqual(t, len(repo.events), 2)
}

func TestIngest_SkipsInvalidItems(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, nil)

	result, err := svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Segments: []SegmentInput{
			{Speaker: "patient", Text: "   ", StartTime: 0, EndTime: 1},
			{Speaker: "narrator", Text: "Valid text, bad speaker.", StartTime: 1, EndTime: 2},
			{Speaker: "patient", Text: "End before start.", StartTime: 5, EndTime: 3},
			{Speaker: "patient", Text: "This one is fine.", StartTime: 3, EndTime: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 0, result.RiskDetected)
	require.Len(t, repo.segments, 1)
	assert.Equal(t, "This one is fine.", repo.segments[0].Text)
}

func TestIngest_BatchValidation(t *testing.T) {
	svc := newTestIngestService(newFakeSegmentsRepo(), nil)

	_, err := svc.Ingest(context.Background(), IngestRequest{
		Segments: []SegmentInput{{Speaker: "patient", Text: "hi", EndTime: 1}},
	})
	assert.ErrorIs(t, err, ErrMissingSessionID)

	_, err = svc.Ingest(context.Background(), IngestRequest{SessionID: "sess-1"})
	assert.ErrorIs(t, err, ErrNoSegments)

	_, err = svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Region:    "apac",
		Segments:  []SegmentInput{{Speaker: "patient", Text: "hi", EndTime: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestIngest_PersistFailureDoesNotAbortBatch(t *testing.T) {
	repo := newFakeSegmentsRepo()
	repo.failOn["This write fails."] = errors.New("connection reset")
	svc := newTestIngestService(repo, nil)

	result, err := svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Segments: []SegmentInput{
			{Speaker: "patient", Text: "This write fails.", StartTime: 0, EndTime: 2},
			{Speaker: "patient", Text: "This write succeeds.", StartTime: 2, EndTime: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	require.Len(t, repo.segments, 1)
	assert.Equal(t, "This write succeeds.", repo.segments[0].Text)
}

func TestIngest_RegionDefaultsToUS(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, nil)

	_, err := svc.Ingest(context.Background(), IngestRequest{
		SessionID: "sess-1",
		Segments:  []SegmentInput{{Speaker: "patient", Text: "Hello.", StartTime: 0, EndTime: 1}},
	})
	require.NoError(t, err)
	require.Len(t, repo.segments, 1)
	assert.Equal(t, domain.RegionUS, repo.segments[0].Region)
}

func TestIngestRaw_SegmentsAndDelegates(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, nil)

	result, err := svc.IngestRaw(context.Background(), RawIngestRequest{
		SessionID:  "sess-1",
		Transcript: "I feel fine today. But sometimes I want to hurt myself.",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.RiskDetected)
	require.Len(t, repo.segments, 2)

	// 切分出的片段连续且默认 patient 说话人
	assert.Equal(t, domain.SpeakerPatient, repo.segments[0].Speaker)
	assert.Equal(t, repo.segments[0].EndTime, repo.segments[1].StartTime)
}

func TestIngestRaw_EmptyTranscript(t *testing.T) {
	svc := newTestIngestService(newFakeSegmentsRepo(), nil)

	_, err := svc.IngestRaw(context.Background(), RawIngestRequest{
		SessionID:  "sess-1",
		Transcript: "   ",
	})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestTranscribeAndIngest(t *testing.T) {
	repo := newFakeSegmentsRepo()
	svc := newTestIngestService(repo, &fakeTranscriber{text: "Sometimes I want to hurt myself."})

	result, err := svc.TranscribeAndIngest(context.Background(), TranscribeIngestRequest{
		SessionID: "sess-1",
		AudioURL:  "https://media.example.com/audio.webm",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.RiskDetected)
	require.Len(t, repo.segments, 1)
	assert.Equal(t, float64(0), repo.segments[0].StartTime)
	assert.Greater(t, repo.segments[0].EndTime, float64(0))
}

func TestTranscribeAndIngest_Errors(t *testing.T) {
	repo := newFakeSegmentsRepo()

	_, err := newTestIngestService(repo, &fakeTranscriber{}).TranscribeAndIngest(context.Background(), TranscribeIngestRequest{
		SessionID: "sess-1",
	})
	assert.ErrorIs(t, err, ErrMissingAudioURL)

	_, err = newTestIngestService(repo, nil).TranscribeAndIngest(context.Background(), TranscribeIngestRequest{
		SessionID: "sess-1",
		AudioURL:  "https://media.example.com/audio.webm",
	})
	assert.ErrorIs(t, err, ErrNoTranscriber)

	_, err = newTestIngestService(repo, &fakeTranscriber{text: "  "}).TranscribeAndIngest(context.Background(), TranscribeIngestRequest{
		SessionID: "sess-1",
		AudioURL:  "https://media.example.com/audio.webm",
	})
	assert.ErrorIs(t, err, ErrEmptyTranscription)

	_, err = newTestIngestService(repo, &fakeTranscriber{err: errors.New("asr unavailable")}).TranscribeAndIngest(context.Background(), TranscribeIngestRequest{
		SessionID: "sess-1",
		AudioURL:  "https://media.example.com/audio.webm",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to transcribe audio")
}
