package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/id"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/identity/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity/token"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	// ErrConfirmationInvalid indicates an unknown or already used confirmation token.
	ErrConfirmationInvalid = apperrors.New(apperrors.CodeConfirmationInvalid, "Email link is invalid or has expired")
	// ErrSessionRevoked indicates a token whose session was signed out or expired.
	ErrSessionRevoked = apperrors.New(apperrors.CodeSessionRevoked, "session is no longer active")
)

var tracer = otel.Tracer("github.com/louisbranch/crmdesk/internal/services/identity")

// Config controls account policy.
type Config struct {
	// RequireEmailConfirmation rejects sign-in until the email link is used.
	RequireEmailConfirmation bool
	// PublicURL is the externally reachable base URL used in email links.
	PublicURL string
	// ConfirmPath maps a confirmation token to the path of the email link.
	// Nil uses /auth/confirm?token=.
	ConfirmPath func(token string) string
}

// SignUpInput describes a new account.
type SignUpInput struct {
	Email    string
	Password string
	Metadata map[string]string
}

// Tokens is the result of a successful sign-in.
type Tokens struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
}

// Service implements account and session operations.
type Service struct {
	store          storage.Store
	tokens         *token.Manager
	mailer         Mailer
	logger         *zap.Logger
	config         Config
	clock          func() time.Time
	idGenerator    func() (string, error)
	tokenGenerator func() (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(idGenerator func() (string, error)) Option {
	return func(s *Service) {
		if idGenerator != nil {
			s.idGenerator = idGenerator
		}
	}
}

// WithTokenGenerator overrides confirmation token generation.
func WithTokenGenerator(tokenGenerator func() (string, error)) Option {
	return func(s *Service) {
		if tokenGenerator != nil {
			s.tokenGenerator = tokenGenerator
		}
	}
}

// WithMailer overrides the confirmation mailer.
func WithMailer(mailer Mailer) Option {
	return func(s *Service) {
		if mailer != nil {
			s.mailer = mailer
		}
	}
}

// NewService builds a Service.
func NewService(store storage.Store, tokens *token.Manager, config Config, logger *zap.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	logger = logging.OrNop(logger)
	s := &Service{
		store:          store,
		tokens:         tokens,
		mailer:         LogMailer{Logger: logger},
		logger:         logger,
		config:         config,
		clock:          time.Now,
		idGenerator:    id.NewID,
		tokenGenerator: id.NewToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignUp creates an unconfirmed account and sends its confirmation link.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (u user.User, err error) {
	ctx, span := tracer.Start(ctx, "identity.SignUp")
	defer func() { endSpan(span, err) }()

	u, err = user.CreateUser(user.CreateUserInput{
		Email:    input.Email,
		Password: input.Password,
		Metadata: input.Metadata,
	}, s.clock, s.idGenerator)
	if err != nil {
		return user.User{}, err
	}

	if _, err := s.store.GetUserByEmail(ctx, u.Email); err == nil {
		return user.User{}, user.ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, fmt.Errorf("lookup email: %w", err)
	}

	u.ConfirmationToken, err = s.tokenGenerator()
	if err != nil {
		return user.User{}, fmt.Errorf("generate confirmation token: %w", err)
	}
	if err := s.store.PutUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("put user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	if err := s.mailer.SendConfirmation(ctx, u.Email, s.confirmURL(u.ConfirmationToken)); err != nil {
		s.logger.Warn("send confirmation email", append(requestctx.Fields(ctx), zap.String("user_id", u.ID), zap.Error(err))...)
	}
	return u, nil
}

func (s *Service) confirmURL(confirmationToken string) string {
	base := strings.TrimRight(strings.TrimSpace(s.config.PublicURL), "/")
	if s.config.ConfirmPath != nil {
		return base + s.config.ConfirmPath(confirmationToken)
	}
	return base + "/auth/confirm?token=" + url.QueryEscape(confirmationToken)
}

// ConfirmEmail confirms the account holding confirmationToken.
func (s *Service) ConfirmEmail(ctx context.Context, confirmationToken string) (user.User, error) {
	confirmationToken = strings.TrimSpace(confirmationToken)
	if confirmationToken == "" {
		return user.User{}, ErrConfirmationInvalid
	}
	u, err := s.store.GetUserByConfirmationToken(ctx, confirmationToken)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, ErrConfirmationInvalid
	}
	if err != nil {
		return user.User{}, fmt.Errorf("lookup confirmation: %w", err)
	}
	confirmedAt := s.clock().UTC()
	if err := s.store.ConfirmUser(ctx, u.ID, confirmedAt); err != nil {
		return user.User{}, fmt.Errorf("confirm user: %w", err)
	}
	u.ConfirmedAt = &confirmedAt
	u.ConfirmationToken = ""
	u.UpdatedAt = confirmedAt
	return u, nil
}

// SignIn checks credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (tokens Tokens, err error) {
	ctx, span := tracer.Start(ctx, "identity.SignIn")
	defer func() { endSpan(span, err) }()

	normalized, err := user.NormalizeEmail(email)
	if err != nil {
		return Tokens{}, user.ErrInvalidCredentials
	}
	u, err := s.store.GetUserByEmail(ctx, normalized)
	if errors.Is(err, storage.ErrNotFound) {
		return Tokens{}, user.ErrInvalidCredentials
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := u.CheckPassword(password); err != nil {
		return Tokens{}, err
	}
	if s.config.RequireEmailConfirmation && !u.Confirmed() {
		return Tokens{}, user.ErrEmailNotConfirmed
	}

	sessionID, err := s.idGenerator()
	if err != nil {
		return Tokens{}, fmt.Errorf("generate session id: %w", err)
	}
	accessToken, expiresAt, err := s.tokens.Issue(u.ID, sessionID, u.Email)
	if err != nil {
		return Tokens{}, err
	}
	now := s.clock().UTC()
	if err := s.store.PutSession(ctx, storage.Session{
		ID:        sessionID,
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}); err != nil {
		return Tokens{}, fmt.Errorf("put session: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return Tokens{AccessToken: accessToken, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// GetPrincipal returns the account behind a live access token.
func (s *Service) GetPrincipal(ctx context.Context, accessToken string) (u user.User, err error) {
	ctx, span := tracer.Start(ctx, "identity.GetPrincipal")
	defer func() { endSpan(span, err) }()

	session, err := s.activeSession(ctx, accessToken)
	if err != nil {
		return user.User{}, err
	}
	u, err = s.store.GetUser(ctx, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, ErrSessionRevoked
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SignOut revokes the session behind accessToken.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	session, err := s.activeSession(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.store.RevokeSession(ctx, session.ID, s.clock().UTC()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Service) activeSession(ctx context.Context, accessToken string) (storage.Session, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return storage.Session{}, err
	}
	session, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, ErrSessionRevoked
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != claims.Subject || !session.Active(s.clock().UTC()) {
		return storage.Session{}, ErrSessionRevoked
	}
	return session, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
