package dtos

import "strings"

type RegisterForm struct {
	Username        string `form:"username" validate:"required,min=3,max=64"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember_me"`
}

func (f *LoginForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

type ProfileForm struct {
	Username string `form:"username" validate:"required,min=3,max=64"`
	Email    string `form:"email" validate:"required,email,max=120"`
}

func (f *ProfileForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

type DeleteAccountForm struct {
	Password      string `form:"password" validate:"required"`
	ConfirmDelete string `form:"confirm_delete" validate:"required"`
}
