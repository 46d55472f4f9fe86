package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorMessage() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeUnauthorized, Message: "invalid email or password"}
		s.Equal("invalid email or password", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	s.True(errors.Is(New(CodeNotFound, "user not found"), &Error{Code: CodeNotFound}))
	s.False(errors.Is(New(CodeNotFound, "user not found"), &Error{Code: CodeConflict}))
	s.False((&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the original domain code", func() {
		inner := New(CodeNotFound, "user not found")
		wrapped := Wrap(inner, CodeInternal, "load user")

		var domainErr *Error
		s.Require().True(errors.As(wrapped, &domainErr))
		s.Equal(CodeNotFound, domainErr.Code)
		s.Equal("load user", domainErr.Message)
	})

	s.Run("assigns the given code to foreign errors", func() {
		root := errors.New("connection refused")
		wrapped := Wrap(root, CodeUnavailable, "order service unreachable")

		s.True(HasCode(wrapped, CodeUnavailable))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(fmt.Errorf("handler: %w", New(CodeConflict, "email taken")), CodeConflict))
	s.False(HasCode(errors.New("plain"), CodeConflict))
	s.False(HasCode(nil, CodeConflict))
}
