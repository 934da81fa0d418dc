package models

// TimestampFormat is the string format both timestamps of a learning space
// are stored in. The stored files have always used this layout, so it must
// not change.
const TimestampFormat = "2006-01-02 15:04:05"

// LearningSpace is a per-user, per-topic container holding generated
// content, curated resources and quiz state. It is owned by exactly one
// user and persisted as one entry in the user's ordered space list.
type LearningSpace struct {
	ID            string         `json:"id" db:"id"`
	Topic         string         `json:"topic" db:"topic"`
	CreatedAt     string         `json:"created_at" db:"created_at"`
	LastAccessed  string         `json:"last_accessed" db:"last_accessed"`
	Content       string         `json:"content" db:"content"`
	Resources     ResourceSet    `json:"resources" db:"resources"`
	HasQuiz       bool           `json:"has_quiz" db:"has_quiz"`
	QuizQuestions []QuizQuestion `json:"quiz_questions" db:"quiz_questions"`
}

// QuizQuestion is one multiple-choice question. Options carry their letter
// label as a prefix ("A. ..."), and Answer is the bare letter of the
// correct option.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// ResourceSet groups curated learning resources by category. Empty
// categories are simply omitted from rendering. Link fields are never
// populated with real URLs; generation deliberately refuses to fabricate
// them.
type ResourceSet struct {
	Books       []BookResource      `json:"books,omitempty"`
	Courses     []CourseResource    `json:"courses,omitempty"`
	Videos      []VideoResource     `json:"videos,omitempty"`
	Websites    []WebsiteResource   `json:"websites,omitempty"`
	Communities []CommunityResource `json:"communities,omitempty"`
}

func (r ResourceSet) IsEmpty() bool {
	return len(r.Books) == 0 && len(r.Courses) == 0 && len(r.Videos) == 0 &&
		len(r.Websites) == 0 && len(r.Communities) == 0
}

type BookResource struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

type CourseResource struct {
	Platform    string `json:"platform"`
	Title       string `json:"title"`
	Link        string `json:"link,omitempty"`
	Description string `json:"description"`
}

type VideoResource struct {
	Channel     string `json:"channel"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type WebsiteResource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CommunityResource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateSpaceRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type CreateSpaceResponse struct {
	Success bool   `json:"success"`
	SpaceID string `json:"space_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type RegenerateRequest struct {
	Customization Customization `json:"customization"`
}
