package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/storage"
	"gorm.io/gorm"
)

// Upload is a file received with the profile form.
type Upload struct {
	Filename string
	Body     io.Reader
}

type UserService struct {
	DB     *gorm.DB
	Hasher auth.PasswordHasher
	Assets storage.AssetStore
	Log    logging.Logger

	// KeepReplacedImages leaves the previous profile image in storage when a
	// user uploads a new one.
	KeepReplacedImages bool
}

func NewUserService(db *gorm.DB, hasher auth.PasswordHasher, assets storage.AssetStore, log logging.Logger, keepReplaced bool) *UserService {
	return &UserService{
		DB:                 db,
		Hasher:             hasher,
		Assets:             assets,
		Log:                log,
		KeepReplacedImages: keepReplaced,
	}
}

// Register validates the form and creates the user with a hashed password.
func (s *UserService) Register(ctx context.Context, form dtos.RegisterForm) (*models.User, error) {
	form.Normalize()
	if err := validateForm(&form); err != nil {
		return nil, err
	}
	if len(form.Password) > MaxPasswordBytes {
		return nil, NewValidationError("password", MsgPasswordTooLong)
	}
	if err := s.checkAvailable(ctx, form.Username, form.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		ProfileImage: models.DefaultProfileImage,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration.
		return nil, s.duplicateError(ctx, form.Username, form.Email, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Log.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both yield ErrAuthentication.
func (s *UserService) Authenticate(ctx context.Context, form dtos.LoginForm) (*models.User, error) {
	form.Normalize()
	if err := validateForm(&form); err != nil {
		return nil, err
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", form.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Verify(form.Password, user.PasswordHash) {
		return nil, ErrAuthentication
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// UpdateProfile changes username and email and, when upload is non-nil,
// replaces the profile image. Uniqueness is only re-checked for values that
// actually changed. On success user reflects the stored state.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, form dtos.ProfileForm, upload *Upload) error {
	form.Normalize()
	if err := validateForm(&form); err != nil {
		return err
	}

	username, email := "", ""
	if form.Username != user.Username {
		username = form.Username
	}
	if form.Email != user.Email {
		email = form.Email
	}
	if err := s.checkAvailable(ctx, username, email, user.ID); err != nil {
		return err
	}

	image := user.ProfileImage
	if upload != nil {
		name, err := s.storeImage(ctx, upload)
		if err != nil {
			return err
		}
		image = name
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{ID: user.ID}).Updates(map[string]any{
			"username":      form.Username,
			"email":         form.Email,
			"profile_image": image,
		}).Error
	})
	if err != nil {
		if image != user.ProfileImage {
			s.removeImage(ctx, user.ID, image)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.duplicateError(ctx, username, email, user.ID)
		}
		return fmt.Errorf("update user: %w", err)
	}

	previous := user.ProfileImage
	user.Username = form.Username
	user.Email = form.Email
	user.ProfileImage = image

	if image != previous && !s.KeepReplacedImages && previous != models.DefaultProfileImage {
		s.removeImage(ctx, user.ID, previous)
	}

	s.Log.Info(ctx, "profile updated", "user_id", user.ID, "username", user.Username, "image_changed", image != previous)
	return nil
}

// DeleteAccount removes the user, all of their jobs and their profile image.
// The password must verify and confirm must read "DELETE" (any case).
// It returns the number of jobs deleted with the account.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User, form dtos.DeleteAccountForm) (int64, error) {
	if !s.Hasher.Verify(form.Password, user.PasswordHash) {
		return 0, ErrAuthorization
	}
	if strings.ToUpper(strings.TrimSpace(form.ConfirmDelete)) != "DELETE" {
		return 0, NewValidationError("confirm_delete", MsgConfirmDelete)
	}

	var jobs int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", user.ID).Delete(&models.Job{})
		if res.Error != nil {
			return res.Error
		}
		jobs = res.RowsAffected

		res = tx.Delete(&models.User{}, user.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if user.HasCustomImage() {
		s.removeImage(ctx, user.ID, user.ProfileImage)
	}
	s.Log.Info(ctx, "account deleted", "user_id", user.ID, "username", user.Username, "jobs_deleted", jobs)
	return jobs, nil
}

// checkAvailable is the friendly pre-check; empty values are skipped and
// exceptID excludes the caller's own row.
func (s *UserService) checkAvailable(ctx context.Context, username, email string, exceptID uint) error {
	ve := &ValidationError{Fields: map[string]string{}}
	if username != "" {
		taken, err := s.exists(ctx, "username", username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.Fields["username"] = MsgUsernameTaken
		}
	}
	if email != "" {
		taken, err := s.exists(ctx, "email", email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.Fields["email"] = MsgEmailTaken
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func (s *UserService) exists(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	var n int64
	q := s.DB.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// duplicateError explains a unique-index violation by looking up which value
// collided. If the other row is already gone a generic message is used.
func (s *UserService) duplicateError(ctx context.Context, username, email string, exceptID uint) error {
	if err := s.checkAvailable(ctx, username, email, exceptID); err != nil {
		return err
	}
	return NewValidationError("username", MsgUsernameTaken)
}

func (s *UserService) storeImage(ctx context.Context, upload *Upload) (string, error) {
	name, err := storage.NewImageName(upload.Filename)
	if err != nil {
		return "", NewValidationError("profile_image", MsgImageType)
	}
	data, contentType, err := storage.NormalizeImage(upload.Body, name)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", NewValidationError("profile_image", MsgImageType)
		}
		return "", err
	}
	if err := s.Assets.Save(ctx, name, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("save profile image: %w", err)
	}
	return name, nil
}

// removeImage is best-effort: failures are logged and otherwise ignored.
func (s *UserService) removeImage(ctx context.Context, userID uint, name string) {
	err := s.Assets.Delete(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.Log.Error(ctx, "error deleting profile image", "user_id", userID, "image", name, "error", err)
	}
}
