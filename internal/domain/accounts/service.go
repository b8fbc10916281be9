package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pet-adoption/internal/platform/logger"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoSession          = errors.New("no active session")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Service struct {
	creds    CredentialStore
	tokens   TokenIssuer
	sessions SessionStore
	log      logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(creds CredentialStore, tokens TokenIssuer, sessions SessionStore, log logger.Logger) *Service {
	return &Service{
		creds:    creds,
		tokens:   tokens,
		sessions: sessions,
		log:      logger.OrNop(log).With(map[string]any{"module": "accounts"}),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type RegisterInput struct {
	Name     string `validate:"required,max=80"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=72"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	u, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Info("login rejected", map[string]any{"email": email})
		}
		return Session{}, err
	}

	return s.startSession(ctx, u)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Session{}, fmt.Errorf("%w: %s %s", ErrInvalidInput, strings.ToLower(fe.Field()), fe.Tag())
		}
		return Session{}, ErrInvalidInput
	}

	u := User{
		ID:        s.newID(),
		Email:     in.Email,
		Name:      in.Name,
		Role:      RoleUser,
		CreatedAt: s.now().UTC(),
	}
	if err := s.creds.Create(ctx, u, in.Password); err != nil {
		return Session{}, err
	}

	s.log.Info("user registered", map[string]any{"user_id": u.ID})
	return s.startSession(ctx, u)
}

func (s *Service) startSession(ctx context.Context, u User) (Session, error) {
	token, exp, err := s.tokens.Issue(ctx, u)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	sess := Session{Token: token, User: u, ExpiresAt: exp}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Token devuelve el token guardado, si hay.
func (s *Service) Token(ctx context.Context) (string, bool) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return "", false
	}
	return sess.Token, true
}

// CurrentUser devuelve el perfil cacheado de la sesión.
func (s *Service) CurrentUser(ctx context.Context) (User, bool) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return User{}, false
	}
	return sess.User, true
}

// IsAuthenticated: hay sesión y el token no expiró.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.sessions.Load(ctx)
	if err != nil || sess.Token == "" {
		return false
	}
	return sess.ExpiresAt.IsZero() || s.now().Before(sess.ExpiresAt)
}

// ForgotPassword solo comprueba que el email exista; no hay envío de correo.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	if _, err := s.creds.FindByEmail(ctx, email); err != nil {
		return err
	}

	s.log.Info("password reset requested", map[string]any{"email": email})
	return nil
}

// SeedDemoUsers crea los usuarios de demostración que falten.
func (s *Service) SeedDemoUsers(ctx context.Context) (int, error) {
	n := 0
	for _, d := range demoUsers() {
		u := d.User
		u.CreatedAt = s.now().UTC()
		err := s.creds.Create(ctx, u, d.Password)
		if errors.Is(err, ErrEmailTaken) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
