package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateCourse(t *testing.T) {
	var received GenerateCourseRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/course/generate" {
			t.Errorf("path = %q, want /api/course/generate", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"course_id": "course_5_20260115_103000",
			"course_title": "Intro to Trains",
			"total_slides": 12,
			"total_questions": 10
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateCourse(context.Background(), GenerateCourseRequest{
		VideoID:      5,
		Language:     "en",
		Theme:        "dark",
		NumQuestions: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.VideoID != 5 || received.Theme != "dark" || received.NumQuestions != 10 {
		t.Errorf("request = %+v", received)
	}
	if result.CourseID != "course_5_20260115_103000" {
		t.Errorf("course_id = %q", result.CourseID)
	}
	if result.TotalSlides != 12 || result.TotalQuestions != 10 {
		t.Errorf("totals = %d/%d, want 12/10", result.TotalSlides, result.TotalQuestions)
	}
}

func TestListCourses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_courses": 2,
			"total_storage_mb": 14.2,
			"courses": [
				{"course_id":"c1","title":"One","total_slides":5,"total_questions":8,"storage_mb":6.1},
				{"course_id":"c2","title":"Two","total_slides":7,"total_questions":12,"storage_mb":8.1}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	list, err := client.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalCourses != 2 {
		t.Errorf("total_courses = %d, want 2", list.TotalCourses)
	}
	if len(list.Courses) != 2 || list.Courses[1].TotalQuestions != 12 {
		t.Errorf("courses = %+v", list.Courses)
	}
}

func TestDeleteCourse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/api/course/course_1_x" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"course_id":"course_1_x","title":"Deleted Course"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.DeleteCourse(context.Background(), "course_1_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Deleted Course" {
		t.Errorf("title = %q, want %q", result.Title, "Deleted Course")
	}
}

func TestCleanupCourses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("days = %q, want 30", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deleted_courses":3,"freed_space_mb":21.4}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.CleanupCourses(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCourses != 3 {
		t.Errorf("deleted_courses = %d, want 3", result.DeletedCourses)
	}
	if result.FreedSpaceMB != 21.4 {
		t.Errorf("freed_space_mb = %f, want 21.4", result.FreedSpaceMB)
	}
}

func TestStorageStatsPassthrough(t *testing.T) {
	raw := `{"total_courses":4,"by_language":{"en":3,"ja":1}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stats, err := client.StorageStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stats) != raw {
		t.Errorf("stats = %s, want untouched passthrough", stats)
	}
}

func TestExportCourse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/course/course_5_x/export" {
			t.Errorf("path = %s, want /api/course/course_5_x/export", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write([]byte("PK zip bytes"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, contentType, err := client.ExportCourse(context.Background(), "course_5_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	if contentType != "application/zip" {
		t.Errorf("content type = %q, want application/zip", contentType)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "PK zip bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestExportCourseNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Course package not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, _, err := client.ExportCourse(context.Background(), "nope")
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Detail != "Course package not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestCourseFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/course-files/course_5_x/slides.html" {
			t.Errorf("path = %s, want /course-files/course_5_x/slides.html", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>slides</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, contentType, err := client.CourseFile(context.Background(), "course_5_x", "slides.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	if contentType != "text/html" {
		t.Errorf("content type = %q, want text/html", contentType)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "<html>slides</html>" {
		t.Errorf("body = %q", data)
	}
}
