package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stocked/stocked/internal/core/domain"
	"github.com/stocked/stocked/middleware"
)

// SessionTTL is the fixed lifetime of a session from creation.
const SessionTTL = 7 * 24 * time.Hour

// IssuedSession is a freshly created session, returned so the transport
// can attach the token as a cookie.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService implements the authentication business rules.
// It depends on the Store interface (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	store  domain.Store
	hasher *Argon2idHasher
	now    func() time.Time
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(store domain.Store, hasher *Argon2idHasher) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

// Resolve validates the session token taken from the transport and returns
// the owning user's client projection. rawToken is the session cookie
// value, empty when the cookie was absent.
//
// An expired session is deleted eagerly; if that delete fails the request
// fails as internal, since an undeleted expired session is a latent bug.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (*domain.ClientUser, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.resolve", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if rawToken == "" {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, NewError(KindMissingSessionCookie)
	}

	token, err := uuid.Parse(rawToken)
	if err != nil {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, WrapError(KindInvalidSessionToken, err)
	}

	session, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, internalError("query session", err)
	}
	if session == nil {
		// Stale or forged token, distinct from a missing cookie.
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, NewError(KindMissingSession)
	}

	if !s.now().Before(session.ExpiresAt) {
		if delErr := s.store.Sessions().Delete(ctx, token); delErr != nil {
			span.RecordError(delErr)
			return nil, internalError("delete expired session", delErr)
		}
		span.SetAttributes(attribute.Bool("session.valid", false))
		span.AddEvent("session.expired")
		return nil, SessionExpiredError(session.ExpiresAt)
	}

	user, err := s.store.Users().GetByID(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, internalError("query session user", err)
	}
	if user == nil {
		// A valid unexpired session pointing at no user means systemic
		// corruption, not a client mistake. Never a 404.
		err := fmt.Errorf("session %s references missing user %d", token, session.UserID)
		span.RecordError(err)
		return nil, WrapError(KindInternal, err)
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("session.valid", true),
	)
	return domain.ClientUserFrom(user), nil
}

// Register creates an account, a user and a session in one transaction.
// rawToken is the current session cookie value, used only to reject
// callers who are already authenticated.
func (s *AuthService) Register(ctx context.Context, rawToken string, creds domain.AuthCredentials) (*domain.ClientUser, *IssuedSession, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", creds.Email),
	))
	defer span.End()

	// Holders of a valid session may not re-register. The reason the
	// current token failed to resolve is irrelevant here.
	if _, err := s.Resolve(ctx, rawToken); err == nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, nil, NewError(KindAlreadyAuthenticated)
	}

	if !ValidatePassword(creds.Password) {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, nil, NewError(KindPasswordRequirementsNotMet)
	}

	token := uuid.New()
	expiresAt := s.now().Add(SessionTTL)

	var user *domain.UserRow
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		exists, err := tx.Users().EmailExists(ctx, creds.Email)
		if err != nil {
			return fmt.Errorf("check existing email: %w", err)
		}
		if exists {
			return NewError(KindEmailTaken)
		}

		passwordHash, err := s.hasher.Hash(creds.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user, err = tx.Users().CreateWithAccount(ctx, creds.Email, passwordHash)
		if err != nil {
			return err
		}

		return tx.Sessions().Create(ctx, token, user.ID, expiresAt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("registration.success", false))
		// The unique constraint is the final arbiter under concurrency.
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, nil, WrapError(KindEmailTaken, err)
		}
		var appErr *Error
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, internalError("register user", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return domain.ClientUserFrom(user), &IssuedSession{Token: token.String(), ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and creates a new session. Multiple
// concurrent sessions per user are allowed; each login issues a fresh one.
func (s *AuthService) Login(ctx context.Context, rawToken string, creds domain.AuthCredentials) (*domain.ClientUser, *IssuedSession, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", creds.Email),
	))
	defer span.End()

	if _, err := s.Resolve(ctx, rawToken); err == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, nil, NewError(KindAlreadyAuthenticated)
	}

	token := uuid.New()
	expiresAt := s.now().Add(SessionTTL)

	var user *domain.UserRow
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		row, err := tx.Users().GetByEmail(ctx, creds.Email)
		if err != nil {
			return fmt.Errorf("query user by email: %w", err)
		}
		if row == nil {
			// Same client-visible failure as a wrong password. Note the
			// miss skips hashing entirely, so the two paths are not
			// constant-time relative to each other.
			return NewError(KindInvalidCredentials)
		}

		if err := s.hasher.Verify(creds.Password, row.PasswordHash); err != nil {
			if errors.Is(err, ErrPasswordMismatch) {
				return WrapError(KindInvalidCredentials, err)
			}
			// A hash that cannot be parsed is corrupt stored state.
			return fmt.Errorf("verify password: %w", err)
		}

		user = row
		return tx.Sessions().Create(ctx, token, row.ID, expiresAt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		var appErr *Error
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, internalError("login user", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return domain.ClientUserFrom(user), &IssuedSession{Token: token.String(), ExpiresAt: expiresAt}, nil
}

// Logout deletes the current session. Every resolution failure collapses
// into the generic client-error kind: the specific reason a logout could
// not be tied to a session is not diagnostically interesting to the client.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if _, err := s.Resolve(ctx, rawToken); err != nil {
		span.SetAttributes(attribute.Bool("logout.success", false))
		return WrapError(KindClientError, err)
	}

	// Resolve succeeded, so the token parses.
	token := uuid.MustParse(rawToken)
	if err := s.store.Sessions().Delete(ctx, token); err != nil {
		span.RecordError(err)
		return internalError("delete session", err)
	}

	span.SetAttributes(attribute.Bool("logout.success", true))
	span.AddEvent("user.logged_out")
	return nil
}
