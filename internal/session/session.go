// Package session owns the upload/processing lifecycle of a video: it submits
// the upload, polls the analysis backend until a terminal state, and keeps the
// chat transcript for the completed video. At most one session is active at a
// time; starting a new upload supersedes and cancels the previous one.
package session

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	// StatusTimedOut is gateway-local: the backend never reported a terminal
	// state within the poll attempt budget.
	StatusTimedOut Status = "timed_out"
)

// Terminal reports whether no further poll will change the status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

// Display stages of the processing pipeline. These are estimated from the
// poll attempt count, not reported by the backend; the indicator can run
// ahead of or behind the real pipeline and is not authoritative.
const (
	StageExtracting   = "extracting"
	StageTranscribing = "transcribing"
	StageSummarizing  = "summarizing"
	StageAudio        = "audio"
	StageCompleted    = "completed"
)

func stageForAttempt(attempts int) (string, int) {
	switch {
	case attempts >= 5:
		return StageAudio, 90
	case attempts >= 3:
		return StageSummarizing, 75
	case attempts >= 1:
		return StageTranscribing, 50
	default:
		return StageExtracting, 25
	}
}

var (
	ErrNotVideo        = errors.New("file must be a video")
	ErrNoActiveSession = errors.New("no active session")
	ErrNotReady        = errors.New("video processing has not completed")
	ErrEmptyQuestion   = errors.New("question must not be empty")
	ErrNoAudioSummary  = errors.New("no audio summary available")
)

type ChatEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

type session struct {
	id         string
	videoID    int64
	filename   string
	uiLanguage string
	startedAt  time.Time

	status       Status
	attempts     int
	stage        string
	stagePercent int
	errMsg       string

	detectedLanguage     string
	transcriptionMethod  string
	summary              string
	audioSummaryPath     string
	audioSummaryDuration *float64

	chat []ChatEntry
}

// Snapshot is an immutable copy of the active session for handlers.
type Snapshot struct {
	ID                   string      `json:"id"`
	VideoID              int64       `json:"video_id"`
	Filename             string      `json:"filename"`
	Status               Status      `json:"status"`
	Attempts             int         `json:"attempts"`
	Stage                string      `json:"stage"`
	StagePercent         int         `json:"stage_percent"`
	Error                string      `json:"error,omitempty"`
	DetectedLanguage     string      `json:"detected_language,omitempty"`
	TranscriptionMethod  string      `json:"transcription_method,omitempty"`
	Summary              string      `json:"summary,omitempty"`
	AudioSummaryPath     string      `json:"audio_summary_path,omitempty"`
	AudioSummaryDuration *float64    `json:"audio_summary_duration,omitempty"`
	Chat                 []ChatEntry `json:"chat"`
}

func (s *session) snapshot() Snapshot {
	chat := make([]ChatEntry, len(s.chat))
	copy(chat, s.chat)
	return Snapshot{
		ID:                   s.id,
		VideoID:              s.videoID,
		Filename:             s.filename,
		Status:               s.status,
		Attempts:             s.attempts,
		Stage:                s.stage,
		StagePercent:         s.stagePercent,
		Error:                s.errMsg,
		DetectedLanguage:     s.detectedLanguage,
		TranscriptionMethod:  s.transcriptionMethod,
		Summary:              s.summary,
		AudioSummaryPath:     s.audioSummaryPath,
		AudioSummaryDuration: s.audioSummaryDuration,
		Chat:                 chat,
	}
}
