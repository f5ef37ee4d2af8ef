package core

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/validator"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
)

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateSignup(v *validator.Validator, input SignupInput) {
	v.CheckNotBlank(input.Username, "username", "This field is required.")
	v.Check(utf8.RuneCountInString(input.Username) <= maxUsernameLength, "username", "Ensure this value has at most 150 characters.")
	v.Check(input.Username == "" || v.IsMatch(input.Username, validator.UsernameRX), "username",
		"Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")

	if input.Email != "" {
		v.CheckEmail(input.Email, "Enter a valid email address.")
	}

	v.CheckNotBlank(input.Password, "password", "This field is required.")
	v.Check(utf8.RuneCountInString(input.Password) >= minPasswordLength, "password",
		"This password is too short. It must contain at least 8 characters.")
}

// Signup registers a new user. Usernames are unique; a taken one yields
// ErrDuplicateUsername.
func (c *Core) Signup(ctx context.Context, input SignupInput) (*auth.User, error) {
	v := validator.New()
	ValidateSignup(v, input)
	if !v.IsValid() {
		return nil, newValidationError(v.Errors)
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		CreatedAt: c.now(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := c.models.Users.Insert(ctx, user); err != nil {
		return nil, err
	}

	c.log.Info("User signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and returns the matching user.
func (c *Core) Login(ctx context.Context, username, password string) (*auth.User, error) {
	v := validator.New()
	v.CheckNotBlank(username, "username", "This field is required.")
	v.CheckNotBlank(password, "password", "This field is required.")
	if !v.IsValid() {
		return nil, newValidationError(v.Errors)
	}

	user, err := c.models.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, NoRecordFound) {
			return nil, xerrors.New(ErrInvalidCredentials)
		}
		return nil, err
	}

	match, err := user.IsPasswordMatch(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, xerrors.New(ErrInvalidCredentials)
	}

	return user, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return c.models.Users.GetByUsername(ctx, username)
}
