package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cliplearn/cliplearn/internal/backend"
	"github.com/cliplearn/cliplearn/internal/metrics"
)

const maxPollAttempts = 60

// Backend is the slice of the analysis API the lifecycle controller needs.
type Backend interface {
	UploadVideo(ctx context.Context, filename, contentType string, file io.Reader, language, uiLanguage string) (*backend.UploadResult, error)
	VideoStatus(ctx context.Context, videoID int64) (*backend.StatusResult, error)
	AskQuestion(ctx context.Context, videoID int64, question, uiLanguage string) (*backend.Answer, error)
	AudioSummary(ctx context.Context, videoID int64) (io.ReadCloser, string, error)
}

type Manager struct {
	backend      Backend
	pollInterval time.Duration
	settleDelay  time.Duration

	mu         sync.Mutex
	current    *session
	cancelPoll context.CancelFunc
}

// NewManager creates the controller. pollInterval is the fixed delay between
// status checks; settleDelay is the brief pause between the backend reporting
// completion and the results being revealed, so the progress indicator can
// land on 100%.
func NewManager(b Backend, pollInterval, settleDelay time.Duration) *Manager {
	return &Manager{
		backend:      b,
		pollInterval: pollInterval,
		settleDelay:  settleDelay,
	}
}

// Start validates and uploads the file, then begins polling for processing
// status in the background. Any prior session's poller is cancelled before
// the upload is sent, so a stale timer can never overwrite the new session's
// state. A non-video content type fails with ErrNotVideo and no request is
// issued.
func (m *Manager) Start(ctx context.Context, filename, contentType string, file io.Reader, videoLanguage, uiLanguage string) (Snapshot, error) {
	if !strings.HasPrefix(contentType, "video/") {
		return Snapshot{}, ErrNotVideo
	}

	m.mu.Lock()
	if m.cancelPoll != nil {
		m.cancelPoll()
		m.cancelPoll = nil
	}
	m.current = nil
	m.mu.Unlock()

	metrics.UploadsStarted.Inc()
	result, err := m.backend.UploadVideo(ctx, filename, contentType, file, videoLanguage, uiLanguage)
	if err != nil {
		metrics.UploadsFailed.Inc()
		return Snapshot{}, fmt.Errorf("upload video: %w", err)
	}

	sess := &session{
		id:         uuid.NewString(),
		videoID:    result.VideoID,
		filename:   filename,
		uiLanguage: uiLanguage,
		startedAt:  time.Now(),
		status:     StatusPending,
	}
	sess.stage, sess.stagePercent = stageForAttempt(0)

	pollCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.current = sess
	m.cancelPoll = cancel
	snap := sess.snapshot()
	m.mu.Unlock()

	go m.poll(pollCtx, sess.id, sess.videoID)
	log.Printf("session %s: uploaded %q as video %d, polling started", sess.id, filename, sess.videoID)
	return snap, nil
}

// poll drives one session to a terminal state. Each failure mode is terminal:
// nothing is retried except the status check itself, which repeats at a fixed
// interval up to maxPollAttempts.
func (m *Manager) poll(ctx context.Context, sessionID string, videoID int64) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			log.Printf("session %s: polling cancelled", sessionID)
			return
		case <-ticker.C:
		}

		attempts++
		metrics.PollAttempts.Inc()

		status, err := m.backend.VideoStatus(ctx, videoID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("session %s: status check failed: %v", sessionID, err)
			m.finishFailed(sessionID, "failed to check processing status")
			return
		}

		switch status.ProcessingStatus {
		case backend.StatusCompleted:
			m.update(sessionID, func(s *session) {
				s.attempts = attempts
				s.stage, s.stagePercent = StageCompleted, 100
			})
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.settleDelay):
			}
			m.finishCompleted(sessionID, status)
			return

		case backend.StatusFailed:
			msg := status.ErrorMessage
			if msg == "" {
				msg = "video processing failed"
			}
			m.finishFailed(sessionID, msg)
			return

		case backend.StatusProcessing, backend.StatusPending:
			if attempts >= maxPollAttempts {
				m.finishTimedOut(sessionID)
				return
			}
			m.update(sessionID, func(s *session) {
				s.status = StatusProcessing
				s.attempts = attempts
				s.stage, s.stagePercent = stageForAttempt(attempts)
			})

		default:
			log.Printf("session %s: unexpected processing status %q", sessionID, status.ProcessingStatus)
			m.finishFailed(sessionID, "failed to check processing status")
			return
		}
	}
}

// update applies fn only if the session is still the active one. A poller
// whose session has been superseded finds a different ID and becomes a no-op.
func (m *Manager) update(sessionID string, fn func(*session)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.id != sessionID {
		return false
	}
	fn(m.current)
	return true
}

func (m *Manager) finishCompleted(sessionID string, status *backend.StatusResult) {
	applied := m.update(sessionID, func(s *session) {
		s.status = StatusCompleted
		s.stage, s.stagePercent = StageCompleted, 100
		s.detectedLanguage = status.DetectedLanguage
		s.transcriptionMethod = status.TranscriptionMethod
		s.summary = status.Summary
		s.audioSummaryPath = status.AudioSummaryPath
		s.audioSummaryDuration = status.AudioSummaryDuration
		metrics.ProcessingDuration.Observe(time.Since(s.startedAt).Seconds())
	})
	if applied {
		metrics.UploadsCompleted.Inc()
		log.Printf("session %s: processing completed", sessionID)
	}
}

func (m *Manager) finishFailed(sessionID, msg string) {
	applied := m.update(sessionID, func(s *session) {
		s.status = StatusFailed
		s.errMsg = msg
	})
	if applied {
		metrics.UploadsFailed.Inc()
		log.Printf("session %s: processing failed: %s", sessionID, msg)
	}
}

func (m *Manager) finishTimedOut(sessionID string) {
	applied := m.update(sessionID, func(s *session) {
		s.status = StatusTimedOut
		s.errMsg = "processing timed out, please try again"
	})
	if applied {
		metrics.UploadsTimedOut.Inc()
		log.Printf("session %s: gave up after %d poll attempts", sessionID, maxPollAttempts)
	}
}

// Snapshot returns a copy of the active session, if any.
func (m *Manager) Snapshot() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Snapshot{}, false
	}
	return m.current.snapshot(), true
}

// Reset cancels any in-flight poller and discards the active session.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelPoll != nil {
		m.cancelPoll()
		m.cancelPoll = nil
	}
	m.current = nil
}

// Ask forwards a question about the completed video and records the exchange
// in the session transcript.
func (m *Manager) Ask(ctx context.Context, question, uiLanguage string) (ChatEntry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return ChatEntry{}, ErrEmptyQuestion
	}

	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return ChatEntry{}, ErrNoActiveSession
	}
	if m.current.status != StatusCompleted {
		m.mu.Unlock()
		return ChatEntry{}, ErrNotReady
	}
	sessionID := m.current.id
	videoID := m.current.videoID
	if uiLanguage == "" {
		uiLanguage = m.current.uiLanguage
	}
	m.mu.Unlock()

	answer, err := m.backend.AskQuestion(ctx, videoID, question, uiLanguage)
	if err != nil {
		return ChatEntry{}, fmt.Errorf("ask question: %w", err)
	}

	entry := ChatEntry{Question: question, Answer: answer.Answer, AskedAt: time.Now()}
	m.update(sessionID, func(s *session) {
		s.chat = append(s.chat, entry)
	})
	metrics.QuestionsAsked.Inc()
	return entry, nil
}

// ClearChat empties the transcript of the active session.
func (m *Manager) ClearChat() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoActiveSession
	}
	m.current.chat = nil
	return nil
}

// AudioSummary streams the narration audio for the completed video.
func (m *Manager) AudioSummary(ctx context.Context) (io.ReadCloser, string, error) {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return nil, "", ErrNoActiveSession
	}
	if m.current.status != StatusCompleted {
		m.mu.Unlock()
		return nil, "", ErrNotReady
	}
	if m.current.audioSummaryPath == "" {
		m.mu.Unlock()
		return nil, "", ErrNoAudioSummary
	}
	videoID := m.current.videoID
	m.mu.Unlock()

	return m.backend.AudioSummary(ctx, videoID)
}
