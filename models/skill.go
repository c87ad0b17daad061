package models

// Skill is a technology with a self-assessed proficiency.
type Skill struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Proficiency       int      `json:"proficiency"`
	YearsOfExperience *float64 `json:"yearsOfExperience"`
}

// SkillPayload is the body of POST /skills and PUT /skills/{id}.
type SkillPayload struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Proficiency       int      `json:"proficiency"`
	YearsOfExperience *float64 `json:"yearsOfExperience"`
}

// Level names the proficiency band shown on the about page.
func (s Skill) Level() string {
	switch {
	case s.Proficiency >= 90:
		return "Expert"
	case s.Proficiency >= 70:
		return "Advanced"
	case s.Proficiency >= 50:
		return "Intermediate"
	default:
		return "Beginner"
	}
}
