package validate

import "fmt"

// Input limits enforced before any request leaves the gateway.
const (
	MaxQuestionLength = 2000
	MaxFilenameLength = 255

	MinQuizQuestions = 5
	MaxQuizQuestions = 50

	MinCleanupDays = 1
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func Question(s string) string { return checkLen(s, MaxQuestionLength, "question") }
func Filename(s string) string { return checkLen(s, MaxFilenameLength, "filename") }

// QuizQuestionCount rejects question counts the course generator does not
// accept, so no request is sent for out-of-range values.
func QuizQuestionCount(n int) string {
	if n < MinQuizQuestions || n > MaxQuizQuestions {
		return fmt.Sprintf("number of questions must be between %d and %d", MinQuizQuestions, MaxQuizQuestions)
	}
	return ""
}

func CleanupDays(days int) string {
	if days < MinCleanupDays {
		return fmt.Sprintf("days must be at least %d", MinCleanupDays)
	}
	return ""
}

func CourseTheme(theme string) string {
	switch theme {
	case "light", "dark", "corporate":
		return ""
	}
	return "theme must be one of: light, dark, corporate"
}
