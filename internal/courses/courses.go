// Package courses is the console facade over the backend's course library:
// generation, listing, deletion, and bulk cleanup. The backend owns every
// course record; nothing is cached or mutated locally, and the list is always
// re-fetched after a mutation by the caller's follow-up request.
package courses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cliplearn/cliplearn/internal/backend"
	"github.com/cliplearn/cliplearn/internal/httputil"
	"github.com/cliplearn/cliplearn/internal/metrics"
	"github.com/cliplearn/cliplearn/internal/validate"
)

// Backend is the slice of the analysis API the course facade needs.
type Backend interface {
	GenerateCourse(ctx context.Context, req backend.GenerateCourseRequest) (*backend.GenerateCourseResult, error)
	ListCourses(ctx context.Context) (*backend.CourseList, error)
	DeleteCourse(ctx context.Context, courseID string) (*backend.DeleteCourseResult, error)
	CleanupCourses(ctx context.Context, days int) (*backend.CleanupResult, error)
	ExportCourse(ctx context.Context, courseID string) (io.ReadCloser, string, error)
	CourseFile(ctx context.Context, courseID, filename string) (io.ReadCloser, string, error)
	StorageStats(ctx context.Context) (json.RawMessage, error)
	ListVideos(ctx context.Context) ([]backend.Video, error)
	GetVideo(ctx context.Context, videoID int64) (*backend.VideoDetail, error)
	ChatHistory(ctx context.Context, videoID int64) ([]backend.ChatEntry, error)
}

type Handler struct {
	backend Backend
}

func NewHandler(b Backend) *Handler {
	return &Handler{backend: b}
}

type listResponse struct {
	TotalCourses   int              `json:"total_courses"`
	TotalStorageMB float64          `json:"total_storage_mb"`
	TotalSlides    int              `json:"total_slides"`
	TotalQuestions int              `json:"total_questions"`
	Courses        []backend.Course `json:"courses"`
}

// List returns the course library. Slide and question totals are summed from
// the entries themselves rather than trusted from backend aggregates, so the
// header always matches the table below it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.backend.ListCourses(r.Context())
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}

	resp := listResponse{
		TotalCourses:   list.TotalCourses,
		TotalStorageMB: list.TotalStorageMB,
		Courses:        list.Courses,
	}
	if resp.Courses == nil {
		resp.Courses = []backend.Course{}
	}
	for _, course := range list.Courses {
		resp.TotalSlides += course.TotalSlides
		resp.TotalQuestions += course.TotalQuestions
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

type generateRequest struct {
	VideoID      int64  `json:"video_id"`
	Language     string `json:"language"`
	Theme        string `json:"theme"`
	NumQuestions int    `json:"num_questions"`
}

// Generate validates the request locally and forwards it. Out-of-range
// question counts and unknown themes never reach the backend.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VideoID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "select a video first")
		return
	}
	if msg := validate.QuizQuestionCount(req.NumQuestions); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validate.CourseTheme(req.Theme); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.backend.GenerateCourse(r.Context(), backend.GenerateCourseRequest{
		VideoID:      req.VideoID,
		Language:     req.Language,
		Theme:        req.Theme,
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		slog.Error("course generation failed", "video_id", req.VideoID, "error", err)
		httputil.WriteBackendError(w, err)
		return
	}

	metrics.CoursesGenerated.Inc()
	httputil.WriteJSON(w, http.StatusCreated, result)
}

type deleteResponse struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// Delete removes one course. The response carries its own success message;
// the console re-fetches the list separately, so a failed reload cannot mask
// a successful delete.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing course id")
		return
	}

	result, err := h.backend.DeleteCourse(r.Context(), courseID)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}

	metrics.CoursesDeleted.Inc()
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{
		CourseID: courseID,
		Title:    result.Title,
		Message:  fmt.Sprintf("successfully deleted: %s", result.Title),
	})
}

type cleanupResponse struct {
	DeletedCourses int     `json:"deleted_courses"`
	FreedSpaceMB   float64 `json:"freed_space_mb"`
	Message        string  `json:"message"`
}

// Cleanup bulk-deletes courses older than the given number of days. Deleting
// nothing is still a success, just with different wording.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "days must be a number")
		return
	}
	if msg := validate.CleanupDays(days); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.backend.CleanupCourses(r.Context(), days)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}

	resp := cleanupResponse{
		DeletedCourses: result.DeletedCourses,
		FreedSpaceMB:   result.FreedSpaceMB,
	}
	if result.DeletedCourses == 0 {
		resp.Message = fmt.Sprintf("no courses found older than %d days", days)
	} else {
		resp.Message = fmt.Sprintf("deleted %d course(s) older than %d days, freed %.2f MB", result.DeletedCourses, days, result.FreedSpaceMB)
		metrics.CoursesDeleted.Add(float64(result.DeletedCourses))
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) StorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.StorageStats(r.Context())
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(stats)
}

// Export streams the course's ZIP package for download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	body, contentType, err := h.backend.ExportCourse(r.Context(), courseID)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/zip"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", courseID+".zip"))
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("course export stream interrupted", "course_id", courseID, "error", err)
	}
}

// File streams one generated course page (viewer, slides, quiz) so the
// console can open it in a new tab.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	filename := chi.URLParam(r, "filename")

	body, contentType, err := h.backend.CourseFile(r.Context(), courseID, filename)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	// Generated pages carry their own inline scripts and styles; the
	// console's nonce CSP would blank them.
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self' 'unsafe-inline'; "+
			"style-src 'self' 'unsafe-inline'; img-src 'self' data:; "+
			"connect-src 'self'; frame-ancestors 'self';")
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("course file stream interrupted", "course_id", courseID, "filename", filename, "error", err)
	}
}

// VideoDetail serves the full record for one video, transcription included,
// for the course builder's preview.
func (h *Handler) VideoDetail(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "videoID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "video id must be a number")
		return
	}

	detail, err := h.backend.GetVideo(r.Context(), videoID)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// VideoChat serves the backend-stored question history for a video.
func (h *Handler) VideoChat(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "videoID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "video id must be a number")
		return
	}

	history, err := h.backend.ChatHistory(r.Context(), videoID)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	if history == nil {
		history = []backend.ChatEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, history)
}

// CompletedVideos lists videos the course builder can work from: only fully
// processed ones are offered.
func (h *Handler) CompletedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.backend.ListVideos(r.Context())
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}

	completed := make([]backend.Video, 0, len(videos))
	for _, v := range videos {
		if v.ProcessingStatus == backend.StatusCompleted {
			completed = append(completed, v)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, completed)
}
