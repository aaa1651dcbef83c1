package dtos

import "encoding/json"

type BasicProfileRequest struct {
	Name     *string `json:"name"`
	Headline *string `json:"headline"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
}

type AboutRequest struct {
	About *string `json:"about" binding:"required"`
}

// SkillsRequest keeps skills raw so a non-array can be reported as such.
type SkillsRequest struct {
	Skills json.RawMessage `json:"skills"`
}

type ExperienceRequest struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	StartDate   *string `json:"start_date"` // YYYY-MM-DD, YYYY-MM or RFC 3339
	EndDate     *string `json:"end_date"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
}

type EducationRequest struct {
	Institution  *string `json:"institution"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"field_of_study"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	Grade        *string `json:"grade"`
}
