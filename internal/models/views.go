package models

// Response shapes that attach related-entity summaries to a row.

type JobView struct {
	Job
	Recruiter        *UserSummary `json:"recruiter,omitempty"`
	ApplicationCount *int64       `json:"application_count,omitempty"`
}

func NewJobView(job *Job) *JobView {
	if job == nil || job.ID == 0 {
		return nil
	}
	return &JobView{Job: *job, Recruiter: job.Recruiter.Summary()}
}

type ApplicationView struct {
	Application
	Applicant *UserSummary `json:"applicant,omitempty"`
	Job       *JobView     `json:"job,omitempty"`
}

func NewApplicationView(app *Application) *ApplicationView {
	return &ApplicationView{
		Application: *app,
		Applicant:   app.User.Summary(),
		Job:         NewJobView(app.Job),
	}
}

type SavedJobView struct {
	SavedJob
	Job *JobView `json:"job,omitempty"`
}

func NewSavedJobView(saved *SavedJob) *SavedJobView {
	return &SavedJobView{SavedJob: *saved, Job: NewJobView(saved.Job)}
}

type UserView struct {
	User
	JobCount         int64 `json:"job_count"`
	ApplicationCount int64 `json:"application_count"`
}
