package models

import "fmt"

// Customization is the tuple of preferences that shapes every generation
// prompt. A process-wide default exists before any user action; each session
// carries its own copy once the user changes it.
type Customization struct {
	DifficultyLevel string `json:"difficulty_level"`
	ContentFormat   string `json:"content_format"`
	LearningStyle   string `json:"learning_style"`
}

var (
	DifficultyLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}
	ContentFormats   = []string{"Text-only", "Mixed (Text, Images, Code)", "Code-focused", "Interactive"}
	LearningStyles   = []string{"Conceptual", "Practical", "Project-based", "Question-driven"}
)

func DefaultCustomization() Customization {
	return Customization{
		DifficultyLevel: "Intermediate",
		ContentFormat:   "Mixed (Text, Images, Code)",
		LearningStyle:   "Conceptual",
	}
}

func (c Customization) Validate() error {
	if !contains(DifficultyLevels, c.DifficultyLevel) {
		return fmt.Errorf("invalid difficulty level: %s", c.DifficultyLevel)
	}
	if !contains(ContentFormats, c.ContentFormat) {
		return fmt.Errorf("invalid content format: %s", c.ContentFormat)
	}
	if !contains(LearningStyles, c.LearningStyle) {
		return fmt.Errorf("invalid learning style: %s", c.LearningStyle)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
