package models

// QuizAttempt is the ephemeral state of one quiz run. It lives in the
// session only; nothing of it is persisted, and a retry resets it
// completely.
type QuizAttempt struct {
	CurrentQuestion  int            `json:"current_question"`
	Score            int            `json:"score"`
	SubmittedAnswers map[int]string `json:"submitted_answers"`
	Completed        bool           `json:"completed"`
}

func NewQuizAttempt() *QuizAttempt {
	return &QuizAttempt{
		SubmittedAnswers: make(map[int]string),
	}
}

type QuizAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// QuestionView is a question as shown while the quiz is in progress: the
// correct answer and the explanation stay server-side until completion.
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizReviewEntry is one question of the completed-quiz review.
type QuizReviewEntry struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Submitted   string   `json:"submitted"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type QuizViewResponse struct {
	Success         bool              `json:"success"`
	Error           string            `json:"error,omitempty"`
	Completed       bool              `json:"completed"`
	CurrentQuestion int               `json:"current_question"`
	TotalQuestions  int               `json:"total_questions"`
	Question        *QuestionView     `json:"question,omitempty"`
	Submitted       map[int]string    `json:"submitted,omitempty"`
	Score           int               `json:"score,omitempty"`
	ScorePercent    float64           `json:"score_percent,omitempty"`
	Message         string            `json:"message,omitempty"`
	Review          []QuizReviewEntry `json:"review,omitempty"`
}
