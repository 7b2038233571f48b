package services

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/database"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	assets *storage.LocalStore
	dir    string
	users  *UserService
	jobs   *JobService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	dir := t.TempDir()
	assets, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	log := logging.Discard()
	return &fixture{
		db:     db,
		assets: assets,
		dir:    dir,
		users:  NewUserService(db, auth.NewBcryptHasher(bcrypt.MinCost), assets, log, true),
		jobs:   NewJobService(db, log),
	}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.users.Register(t.Context(), dtos.RegisterForm{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return u
}

func jobForm(title string) dtos.JobForm {
	return dtos.JobForm{
		Title:            title,
		ShortDescription: "short",
		FullDescription:  "full description",
		Company:          "Acme",
		Salary:           "1000",
		Location:         "Tbilisi",
		Category:         models.CategoryIT,
	}
}

func pngUpload(t *testing.T, filename string) *Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))
	return &Upload{Filename: filename, Body: &buf}
}
