package validate

import (
	"strings"
	"testing"
)

func TestQuestionWithinLimit(t *testing.T) {
	if msg := Question("What is this video about?"); msg != "" {
		t.Errorf("unexpected validation message: %q", msg)
	}
}

func TestQuestionTooLong(t *testing.T) {
	long := strings.Repeat("a", MaxQuestionLength+1)
	if msg := Question(long); msg == "" {
		t.Error("expected validation message for oversized question")
	}
}

func TestQuizQuestionCount(t *testing.T) {
	tests := []struct {
		n      int
		wantOK bool
	}{
		{4, false},
		{5, true},
		{10, true},
		{50, true},
		{51, false},
		{0, false},
		{-1, false},
	}

	for _, tt := range tests {
		msg := QuizQuestionCount(tt.n)
		if (msg == "") != tt.wantOK {
			t.Errorf("QuizQuestionCount(%d) = %q, wantOK %v", tt.n, msg, tt.wantOK)
		}
	}
}

func TestCleanupDays(t *testing.T) {
	if msg := CleanupDays(0); msg == "" {
		t.Error("expected validation message for days=0")
	}
	if msg := CleanupDays(-5); msg == "" {
		t.Error("expected validation message for negative days")
	}
	if msg := CleanupDays(1); msg != "" {
		t.Errorf("unexpected validation message for days=1: %q", msg)
	}
	if msg := CleanupDays(30); msg != "" {
		t.Errorf("unexpected validation message for days=30: %q", msg)
	}
}

func TestCourseTheme(t *testing.T) {
	for _, theme := range []string{"light", "dark", "corporate"} {
		if msg := CourseTheme(theme); msg != "" {
			t.Errorf("CourseTheme(%q) = %q, want accepted", theme, msg)
		}
	}
	if msg := CourseTheme("neon"); msg == "" {
		t.Error("expected validation message for unknown theme")
	}
	if msg := CourseTheme(""); msg == "" {
		t.Error("expected validation message for empty theme")
	}
}
