package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// Metadata keys copied from the sign-up form into the account.
const (
	MetaFirstName = "first_name"
	MetaLastName  = "last_name"
	MetaCompany   = "company"
	MetaRole      = "role"
)

var (
	// ErrEmptyEmail indicates a missing email address.
	ErrEmptyEmail = apperrors.New(apperrors.CodeUserEmptyEmail, "Email is required")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = apperrors.New(apperrors.CodeUserInvalidEmail, "Unable to validate email address: invalid format")
	// ErrWeakPassword indicates a password below the minimum length.
	ErrWeakPassword = apperrors.New(apperrors.CodeUserWeakPassword, fmt.Sprintf("Password should be at least %d characters", MinPasswordLength))
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = apperrors.New(apperrors.CodeUserEmailTaken, "User already registered")
	// ErrInvalidCredentials indicates an unknown email or wrong password.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUserInvalidCredentials, "Invalid login credentials")
	// ErrEmailNotConfirmed indicates sign-in before confirming the email.
	ErrEmailNotConfirmed = apperrors.New(apperrors.CodeUserEmailNotConfirmed, "Email not confirmed")
)

// User is a registered account.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Metadata          map[string]string
	ConfirmationToken string
	ConfirmedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Confirmed reports whether the account email was confirmed.
func (u User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// CreateUserInput describes a sign-up request.
type CreateUserInput struct {
	Email    string
	Password string
	Metadata map[string]string
}

// CreateUser validates input and builds a new unconfirmed account.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalized.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	createdAt := now().UTC()
	return User{
		ID:           userID,
		Email:        normalized.Email,
		PasswordHash: string(hash),
		Metadata:     normalized.Metadata,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// NormalizeCreateUserInput trims and validates sign-up input.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return CreateUserInput{}, err
	}
	input.Email = email
	if len(input.Password) < MinPasswordLength {
		return CreateUserInput{}, ErrWeakPassword
	}

	metadata := make(map[string]string, len(input.Metadata))
	for key, value := range input.Metadata {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		metadata[key] = strings.TrimSpace(value)
	}
	input.Metadata = metadata
	return input, nil
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrEmptyEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// CheckPassword compares password against the stored hash.
func (u User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
