package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/platform/metrics"
	id "veridesk/pkg/domain"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/sentinel"
	"veridesk/pkg/secrets"
)

const defaultTTL = 12 * time.Hour

// LoginRequest carries operator credentials plus request metadata used to
// annotate the session.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginResult is returned to the console after a successful login. Token is
// the gateway JWT, not the platform token.
type LoginResult struct {
	Token   string  `json:"token"`
	Session Summary `json:"session"`
}

// Service owns the operator session lifecycle: login against the platform,
// profile caching, token validation, logout.
type Service struct {
	client  backend.Client
	store   Store
	tokens  *TokenService
	logger  *slog.Logger
	audit   audit.Publisher
	metrics *metrics.Metrics
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithMetrics reports session open/close on the active session gauge.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(client backend.Client, store Store, tokens *TokenService, logger *slog.Logger, publisher audit.Publisher, opts ...Option) *Service {
	s := &Service{
		client: client,
		store:  store,
		tokens: tokens,
		logger: logger,
		audit:  publisher,
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginClient authenticates a client operator against the platform and opens
// a session with the client profile (plans included) cached on it.
func (s *Service) LoginClient(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validateLogin(req); err != nil {
		return nil, err
	}

	platformToken, err := s.client.LoginClient(ctx, backend.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, loginError(err)
	}

	profile, err := s.client.ClientProfile(ctx, platformToken)
	if err != nil {
		return nil, fmt.Errorf("fetch client profile: %w", err)
	}

	return s.open(ctx, req, backend.RoleClient, platformToken, &profile, nil)
}

// LoginAdmin authenticates a platform administrator.
func (s *Service) LoginAdmin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validateLogin(req); err != nil {
		return nil, err
	}

	platformToken, err := s.client.LoginAdmin(ctx, backend.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, loginError(err)
	}

	profile, err := s.client.AdminProfile(ctx, platformToken)
	if err != nil {
		return nil, fmt.Errorf("fetch admin profile: %w", err)
	}

	return s.open(ctx, req, backend.RoleAdmin, platformToken, nil, &profile)
}

func (s *Service) open(ctx context.Context, req LoginRequest, role backend.Role, platformToken backend.Token, clientProfile *backend.ClientProfile, adminProfile *backend.AdminProfile) (*LoginResult, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	secretHash, err := secrets.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash session secret: %w", err)
	}

	now := s.now()
	sess := &Session{
		ID:                id.NewSessionID(),
		SecretHash:        secretHash,
		Role:              role,
		Email:             req.Email,
		PlatformToken:     platformToken,
		ClientProfile:     clientProfile,
		AdminProfile:      adminProfile,
		DeviceDisplayName: ParseUserAgent(req.UserAgent),
		IPAddress:         req.IPAddress,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.ttl),
		LastSeenAt:        now,
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.tokens.Generate(sess.ID, role, secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.audit.Publish(ctx, audit.Event{
		Action:     audit.ActionLogin,
		SessionID:  sess.ID,
		Role:       string(role),
		Actor:      req.Email,
		OccurredAt: now,
	})
	s.metrics.SessionOpened()
	s.logger.InfoContext(ctx, "operator logged in",
		"session_id", sess.ID,
		"role", role,
		"device", sess.DeviceDisplayName,
	)

	return &LoginResult{Token: token, Session: sess.Summarize()}, nil
}

// Resolve validates a console token and loads its session. This is the
// auth-middleware entry point.
func (s *Service) Resolve(ctx context.Context, tokenString string) (*Session, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	sess, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session is no longer active")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := secrets.Verify(claims.Secret, sess.SecretHash); err != nil {
		s.logger.WarnContext(ctx, "session secret mismatch", "session_id", sess.ID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return sess, nil
}

// Touch records session activity. Failures are logged, not surfaced; a
// stale LastSeenAt never blocks a request.
func (s *Service) Touch(ctx context.Context, sess *Session) {
	sess.LastSeenAt = s.now()
	if err := s.store.Update(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "session touch failed", "session_id", sess.ID, "error", err)
	}
}

// RefreshProfile re-fetches the platform profile so plan changes made on the
// platform side become visible without a re-login.
func (s *Service) RefreshProfile(ctx context.Context, sess *Session) (*Session, error) {
	switch sess.Role {
	case backend.RoleClient:
		profile, err := s.client.ClientProfile(ctx, sess.PlatformToken)
		if err != nil {
			return nil, fmt.Errorf("refresh client profile: %w", err)
		}
		sess.ClientProfile = &profile
	case backend.RoleAdmin:
		profile, err := s.client.AdminProfile(ctx, sess.PlatformToken)
		if err != nil {
			return nil, fmt.Errorf("refresh admin profile: %w", err)
		}
		sess.AdminProfile = &profile
	default:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "session has unknown role %q", sess.Role)
	}

	if err := s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("store refreshed session: %w", err)
	}
	return sess, nil
}

// Logout deletes the session. Deleting an already-gone session succeeds;
// logout must be idempotent from the console's point of view.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if err := s.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	s.audit.Publish(ctx, audit.Event{
		Action:     audit.ActionLogout,
		SessionID:  sess.ID,
		Role:       string(sess.Role),
		Actor:      sess.Email,
		OccurredAt: s.now(),
	})
	s.metrics.SessionClosed()
	s.logger.InfoContext(ctx, "operator logged out", "session_id", sess.ID)
	return nil
}

func validateLogin(req LoginRequest) error {
	if req.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if req.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

// loginError hides whether the account exists behind one message.
func loginError(err error) error {
	if errors.Is(err, sentinel.ErrUnauthorized) {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	return fmt.Errorf("platform login: %w", err)
}
