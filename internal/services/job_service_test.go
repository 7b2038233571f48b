package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCreateAndGet(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	job, err := f.jobs.Create(t.Context(), alice, jobForm("  Go developer "))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, job.UserID)
	assert.Equal(t, "Go developer", job.Title)

	got, err := f.jobs.Get(t.Context(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.Username)

	_, err = f.jobs.Get(t.Context(), job.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobCreate_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	form := jobForm("")
	form.Category = "Astrology"
	_, err := f.jobs.Create(t.Context(), alice, form)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "category")

	n, err := f.jobs.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobUpdate(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	job, err := f.jobs.Create(t.Context(), alice, jobForm("Old"))
	require.NoError(t, err)

	form := jobForm("New")
	form.Salary = ""
	form.Category = models.CategoryFinance
	updated, err := f.jobs.Update(t.Context(), alice, job.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)

	got, err := f.jobs.Get(t.Context(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "", got.Salary)
	assert.Equal(t, models.CategoryFinance, got.Category)

	_, err = f.jobs.Update(t.Context(), alice, 999, form)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobMutations_RequireOwnership(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	job, err := f.jobs.Create(t.Context(), alice, jobForm("Alice's job"))
	require.NoError(t, err)

	_, err = f.jobs.Update(t.Context(), bob, job.ID, jobForm("Hijacked"))
	assert.ErrorIs(t, err, ErrAuthorization)

	err = f.jobs.Delete(t.Context(), bob, job.ID)
	assert.ErrorIs(t, err, ErrAuthorization)

	got, err := f.jobs.Get(t.Context(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's job", got.Title)
	assert.Equal(t, job.UpdatedAt.Unix(), got.UpdatedAt.Unix())

	require.NoError(t, f.jobs.Delete(t.Context(), alice, job.ID))
	_, err = f.jobs.Get(t.Context(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.jobs.Delete(t.Context(), alice, job.ID), ErrNotFound)
}

func seedJobs(t *testing.T, f *fixture, owner *models.User, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := range n {
		job := &models.Job{UserID: owner.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		form := jobForm(fmt.Sprintf("job-%02d", i))
		form.Apply(job)
		require.NoError(t, f.db.Create(job).Error)
	}
}

func titles(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func TestJobList_Pagination(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	seedJobs(t, f, alice, 15)

	first, err := f.jobs.List(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15), first.Total)
	assert.Equal(t, 2, first.Pages())
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
	assert.Equal(t, []string{
		"job-14", "job-13", "job-12", "job-11", "job-10", "job-09", "job-08", "job-07", "job-06",
	}, titles(first.Items))
	require.NotNil(t, first.Items[0].User)
	assert.Equal(t, "alice", first.Items[0].User.Username)

	second, err := f.jobs.List(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-05", "job-04", "job-03", "job-02", "job-01", "job-00"}, titles(second.Items))
	assert.True(t, second.HasPrev())
	assert.False(t, second.HasNext())

	beyond, err := f.jobs.List(t.Context(), 3)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(15), beyond.Total)

	clamped, err := f.jobs.List(t.Context(), -4)
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
	assert.Len(t, clamped.Items, PerPage)
}

func TestJobList_TieBreaksOnID(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, title := range []string{"first", "second"} {
		job := &models.Job{UserID: alice.ID, CreatedAt: same}
		form := jobForm(title)
		form.Apply(job)
		require.NoError(t, f.db.Create(job).Error)
	}

	page, err := f.jobs.List(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(page.Items))
}

func TestJobListByOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	seedJobs(t, f, alice, 3)
	_, err := f.jobs.Create(t.Context(), bob, jobForm("bob's"))
	require.NoError(t, err)

	owner, page, err := f.jobs.ListByOwner(t.Context(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner.ID)
	assert.Equal(t, int64(3), page.Total)
	for _, j := range page.Items {
		assert.Equal(t, alice.ID, j.UserID)
	}

	_, _, err = f.jobs.ListByOwner(t.Context(), "ghost", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	carol := f.register(t, "carol")
	_, empty, err := f.jobs.ListByOwner(t.Context(), carol.Username, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.Pages())
}

func TestJobFormRoundTrip(t *testing.T) {
	job := &models.Job{}
	form := jobForm("Title")
	form.Apply(job)
	assert.Equal(t, form, dtos.JobFormFrom(job))
}
