package dtos

// JobRequest serves both create and update. Nil fields were not sent.
type JobRequest struct {
	Title        *string `json:"title"`
	Company      *string `json:"company"`
	Location     *string `json:"location"`
	Salary       *string `json:"salary"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	Type         *string `json:"type"`

	// Role is accepted as an alias of Category.
	Category *string `json:"category"`
	Role     *string `json:"role"`
}

// RawCategory returns whichever of category/role was sent, category first.
func (r *JobRequest) RawCategory() *string {
	if r.Category != nil {
		return r.Category
	}
	return r.Role
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
