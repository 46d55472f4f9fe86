package models

import (
	s "storefront/pkg/string"
	"storefront/pkg/validation"
)

// SignupRequest is the body of POST /user-service/users.
type SignupRequest struct {
	Email string `json:"email" validate:"required,email,max=50"`
	Name  string `json:"name" validate:"required,notblank,min=2,max=50"`
	Pwd   string `json:"pwd" validate:"required,min=8,max=72"`
}

func (r *SignupRequest) Normalize() {
	r.Email = s.NormalizeEmail(r.Email)
	s.TrimStrings(&r.Name)
}

func (r *SignupRequest) Validate() error {
	return validation.Validate(r)
}

// LoginRequest is the body of POST /user-service/login.
// Password length rules are deliberately not checked here so that a short
// password yields the same 401 as any other wrong password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = s.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}
