package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/models"
	"gorm.io/gorm"
)

const newestFirst = "created_at desc, id desc"

type JobService struct {
	DB  *gorm.DB
	Log logging.Logger
}

func NewJobService(db *gorm.DB, log logging.Logger) *JobService {
	return &JobService{
		DB:  db,
		Log: log,
	}
}

// List returns one page of all jobs, newest first, with authors loaded.
func (s *JobService) List(ctx context.Context, page int) (*Page[models.Job], error) {
	return paginate[models.Job](ctx, s.DB.Model(&models.Job{}), newestFirst, page, PerPage, "User")
}

// ListByOwner is List restricted to the postings of username. It returns
// ErrNotFound when no such user exists.
func (s *JobService) ListByOwner(ctx context.Context, username string, page int) (*models.User, *Page[models.Job], error) {
	var owner models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	q := s.DB.Model(&models.Job{}).Where("user_id = ?", owner.ID)
	jobs, err := paginate[models.Job](ctx, q, newestFirst, page, PerPage, "User")
	if err != nil {
		return nil, nil, err
	}
	return &owner, jobs, nil
}

func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Preload("User").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Job{}).Count(&n).Error
	return n, err
}

// Create stores a new posting owned by owner.
func (s *JobService) Create(ctx context.Context, owner *models.User, form dtos.JobForm) (*models.Job, error) {
	form.Normalize()
	if err := validateForm(&form); err != nil {
		return nil, err
	}

	job := &models.Job{UserID: owner.ID}
	form.Apply(job)
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	job.User = owner

	s.Log.Info(ctx, "job created", "user_id", owner.ID, "job_id", job.ID, "title", job.Title)
	return job, nil
}

// Update overwrites every field of the job. Only the owner may do this; a
// failed check leaves the row untouched.
func (s *JobService) Update(ctx context.Context, actor *models.User, id uint, form dtos.JobForm) (*models.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(actor) {
		return nil, ErrAuthorization
	}

	form.Normalize()
	if err := validateForm(&form); err != nil {
		return nil, err
	}

	form.Apply(job)
	err = s.DB.WithContext(ctx).Model(&models.Job{ID: job.ID}).Updates(map[string]any{
		"title":             job.Title,
		"short_description": job.ShortDescription,
		"full_description":  job.FullDescription,
		"company":           job.Company,
		"salary":            job.Salary,
		"location":          job.Location,
		"category":          job.Category,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update job %d: %w", id, err)
	}

	s.Log.Info(ctx, "job updated", "user_id", actor.ID, "job_id", job.ID)
	return job, nil
}

// Delete removes the job if actor owns it.
func (s *JobService) Delete(ctx context.Context, actor *models.User, id uint) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !job.OwnedBy(actor) {
		return ErrAuthorization
	}

	res := s.DB.WithContext(ctx).Delete(&models.Job{}, job.ID)
	if res.Error != nil {
		return fmt.Errorf("delete job %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.Log.Info(ctx, "job deleted", "user_id", actor.ID, "job_id", job.ID)
	return nil
}
