package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

// ProcessingStatus values reported by the analysis backend for a video.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type UploadResult struct {
	VideoID          int64  `json:"video_id"`
	Filename         string `json:"filename"`
	ProcessingStatus string `json:"processing_status"`
}

type StatusResult struct {
	VideoID              int64    `json:"video_id"`
	Filename             string   `json:"filename"`
	ProcessingStatus     string   `json:"processing_status"`
	ErrorMessage         string   `json:"error_message"`
	DetectedLanguage     string   `json:"detected_language"`
	TranscriptionMethod  string   `json:"transcription_method"`
	Summary              string   `json:"summary"`
	AudioSummaryPath     string   `json:"audio_summary_path"`
	AudioSummaryDuration *float64 `json:"audio_summary_duration"`
}

type Video struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	DetectedLanguage string `json:"detected_language"`
	ProcessingStatus string `json:"processing_status"`
	Summary          string `json:"summary"`
	UploadedAt       string `json:"uploaded_at"`
}

type VideoDetail struct {
	Video
	Transcription       string   `json:"transcription"`
	ErrorMessage        string   `json:"error_message"`
	TranscriptionMethod string   `json:"transcription_method"`
	AudioSummaryPath    string   `json:"audio_summary_path"`
	ProcessedAt         string   `json:"processed_at"`
	UserLanguage        string   `json:"user_selected_language"`
	AudioDuration       *float64 `json:"audio_summary_duration"`
}

type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	VideoID  int64  `json:"video_id"`
	Language string `json:"language"`
}

type ChatEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
	Language  string `json:"language"`
}

// UploadVideo streams the file to the backend as multipart form data. The
// backend assigns the video ID and starts processing asynchronously; progress
// is observed via VideoStatus.
func (c *Client) UploadVideo(ctx context.Context, filename, contentType string, file io.Reader, language, uiLanguage string) (*UploadResult, error) {
	query := url.Values{}
	if language != "" {
		query.Set("language", language)
	}
	if uiLanguage != "" {
		query.Set("ui_language", uiLanguage)
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-video/?"+query.Encode(), pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}

	var result UploadResult
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if err := unmarshalStrictID(body, &result); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Detail: "backend returned a malformed upload response"}
	}
	return &result, nil
}

// unmarshalStrictID rejects upload responses that decode but carry no video
// ID; without one there is nothing to poll.
func unmarshalStrictID(body []byte, out *UploadResult) error {
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	if out.VideoID == 0 {
		return errors.New("missing video_id")
	}
	return nil
}

func (c *Client) VideoStatus(ctx context.Context, videoID int64) (*StatusResult, error) {
	var result StatusResult
	if err := c.getJSON(ctx, "/video-status/"+strconv.FormatInt(videoID, 10), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	var videos []Video
	if err := c.getJSON(ctx, "/videos/", nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *Client) GetVideo(ctx context.Context, videoID int64) (*VideoDetail, error) {
	var detail VideoDetail
	if err := c.getJSON(ctx, "/video/"+strconv.FormatInt(videoID, 10), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) AskQuestion(ctx context.Context, videoID int64, question, uiLanguage string) (*Answer, error) {
	query := url.Values{}
	if uiLanguage != "" {
		query.Set("ui_language", uiLanguage)
	}

	reqBody := struct {
		VideoID  int64  `json:"video_id"`
		Question string `json:"question"`
	}{VideoID: videoID, Question: question}

	var answer Answer
	if err := c.postJSON(ctx, "/ask-question/", query, reqBody, &answer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer.Answer) == "" {
		return nil, &APIError{Status: http.StatusOK, Detail: "backend returned an empty answer"}
	}
	return &answer, nil
}

func (c *Client) ChatHistory(ctx context.Context, videoID int64) ([]ChatEntry, error) {
	var history []ChatEntry
	if err := c.getJSON(ctx, "/chat-history/"+strconv.FormatInt(videoID, 10), nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AudioSummary streams the generated narration audio. The caller owns the
// returned body and must close it.
func (c *Client) AudioSummary(ctx context.Context, videoID int64) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/audio-summary/"+strconv.FormatInt(videoID, 10))
}
