package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

type Course struct {
	ID             int64   `json:"id"`
	CourseID       string  `json:"course_id"`
	VideoID        int64   `json:"video_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Language       string  `json:"language"`
	Theme          string  `json:"theme"`
	TotalSlides    int     `json:"total_slides"`
	TotalQuestions int     `json:"total_questions"`
	StorageMB      float64 `json:"storage_mb"`
	CreatedAt      string  `json:"created_at"`
}

type CourseList struct {
	TotalCourses   int      `json:"total_courses"`
	Courses        []Course `json:"courses"`
	TotalStorageMB float64  `json:"total_storage_mb"`
}

type GenerateCourseRequest struct {
	VideoID      int64  `json:"video_id"`
	Language     string `json:"language"`
	Theme        string `json:"theme"`
	NumQuestions int    `json:"num_questions"`
}

type GenerateCourseResult struct {
	CourseID       string `json:"course_id"`
	CourseTitle    string `json:"course_title"`
	TotalSlides    int    `json:"total_slides"`
	TotalQuestions int    `json:"total_questions"`
}

type DeleteCourseResult struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
}

type CleanupResult struct {
	DeletedCourses int     `json:"deleted_courses"`
	FreedSpaceMB   float64 `json:"freed_space_mb"`
}

func (c *Client) GenerateCourse(ctx context.Context, req GenerateCourseRequest) (*GenerateCourseResult, error) {
	var result GenerateCourseResult
	if err := c.postJSON(ctx, "/api/course/generate", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCourses(ctx context.Context) (*CourseList, error) {
	var list CourseList
	if err := c.getJSON(ctx, "/api/courses", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) DeleteCourse(ctx context.Context, courseID string) (*DeleteCourseResult, error) {
	var result DeleteCourseResult
	if err := c.doJSON(ctx, http.MethodDelete, "/api/course/"+url.PathEscape(courseID), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CleanupCourses(ctx context.Context, days int) (*CleanupResult, error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var result CleanupResult
	if err := c.postJSON(ctx, "/api/courses/cleanup", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportCourse streams the course's ZIP package. The caller owns the
// returned body and must close it.
func (c *Client) ExportCourse(ctx context.Context, courseID string) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/api/course/"+url.PathEscape(courseID)+"/export")
}

// CourseFile streams one generated course page (index.html, slides.html,
// quiz.html) or its JSON data.
func (c *Client) CourseFile(ctx context.Context, courseID, filename string) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/course-files/"+url.PathEscape(courseID)+"/"+url.PathEscape(filename))
}

func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", errorFromResponse(resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// StorageStats is an implementation-defined stats object; it is passed
// through to the console without interpretation.
func (c *Client) StorageStats(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/courses/storage-stats", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
