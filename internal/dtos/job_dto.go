package dtos

import (
	"strings"

	"github.com/justsurfingit/job-board/internal/models"
)

// JobForm is the body of the add-job and edit-job forms.
type JobForm struct {
	Title            string `form:"title" json:"title" validate:"required,max=200"`
	ShortDescription string `form:"short_description" json:"short_description" validate:"required,max=300"`
	FullDescription  string `form:"full_description" json:"full_description" validate:"required"`
	Company          string `form:"company" json:"company" validate:"required,max=100"`
	Salary           string `form:"salary" json:"salary" validate:"max=100"`
	Location         string `form:"location" json:"location" validate:"required,max=100"`
	Category         string `form:"category" json:"category" validate:"required,oneof=IT Design Marketing Sales Management Finance Other"`
}

// Normalize trims surrounding whitespace so that blank input fails "required".
func (f *JobForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.ShortDescription = strings.TrimSpace(f.ShortDescription)
	f.FullDescription = strings.TrimSpace(f.FullDescription)
	f.Company = strings.TrimSpace(f.Company)
	f.Salary = strings.TrimSpace(f.Salary)
	f.Location = strings.TrimSpace(f.Location)
	f.Category = strings.TrimSpace(f.Category)
}

// Apply copies the form onto job, overwriting every mutable field.
func (f *JobForm) Apply(job *models.Job) {
	job.Title = f.Title
	job.ShortDescription = f.ShortDescription
	job.FullDescription = f.FullDescription
	job.Company = f.Company
	job.Salary = f.Salary
	job.Location = f.Location
	job.Category = f.Category
}

// JobFormFrom prefills the edit form from an existing job.
func JobFormFrom(job *models.Job) JobForm {
	return JobForm{
		Title:            job.Title,
		ShortDescription: job.ShortDescription,
		FullDescription:  job.FullDescription,
		Company:          job.Company,
		Salary:           job.Salary,
		Location:         job.Location,
		Category:         job.Category,
	}
}

// JobExtractionRequest carries a pasted job posting to be turned into a draft.
type JobExtractionRequest struct {
	RawText string `form:"raw_text" json:"raw_text" binding:"required"`
}
