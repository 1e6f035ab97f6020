package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"food-delivery-backend/apperrors"
	"food-delivery-backend/models"
	"food-delivery-backend/store"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID models.UserID, email string) (string, error)
}

// Auth handles signup, login and session lookup.
//
// Passwords are compared as stored; this service does no hashing.
type Auth struct {
	gw     store.Gateway
	tokens TokenIssuer
	log    *zap.Logger
}

// NewAuth creates an Auth service.
func NewAuth(gw store.Gateway, tokens TokenIssuer, log *zap.Logger) *Auth {
	return &Auth{gw: gw, tokens: tokens, log: log}
}

// SignupInput is the data needed to create an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Session is an issued token with the user it belongs to.
type Session struct {
	Token string
	User  *models.User
}

// Signup creates a user and issues its first token.
//
// The email check and the insert are separate calls; the unique index on
// email catches a signup that races past the check. The token is appended in
// a follow-up write, so a failure there leaves a user with no tokens, which a
// later login repairs.
func (a *Auth) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	u, err := models.NewUser(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	_, err = a.findByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("email already registered")
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	id, err := a.gw.Create(ctx, models.UserCollection, u)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered")
		}
		return nil, errors.Wrap(err, "create user")
	}
	u.ID = models.UserID(id)

	token, err := a.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	created, err := a.User(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	a.log.Info("User signed up", zap.String("user_id", id))
	return &Session{Token: token, User: created}, nil
}

// Login checks credentials and issues a new token. Unknown emails and wrong
// passwords fail the same way.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.findByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			a.log.Info("Login rejected", zap.String("reason", "unknown email"))
			return nil, apperrors.ErrCredentials
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		a.log.Info("Login rejected", zap.String("reason", "password mismatch"), zap.String("user_id", string(u.ID)))
		return nil, apperrors.ErrCredentials
	}

	token, err := a.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	u.Tokens = append(u.Tokens, token)

	a.log.Info("User logged in", zap.String("user_id", string(u.ID)))
	return &Session{Token: token, User: u}, nil
}

// Authenticate returns the user a token was issued to. The token signature
// is verified by the caller; this checks that the user exists and still
// holds the token.
func (a *Auth) Authenticate(ctx context.Context, userID models.UserID, token string) (*models.User, error) {
	u, err := a.User(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			return nil, apperrors.ErrCredentials
		}
		return nil, err
	}
	if !u.HasToken(token) {
		return nil, apperrors.ErrCredentials
	}
	return u, nil
}

// User looks a user up by id.
func (a *Auth) User(ctx context.Context, id models.UserID) (*models.User, error) {
	if _, err := parseID[models.UserID]("id", string(id)); err != nil {
		return nil, err
	}
	u, err := store.One[models.User](ctx, a.gw, models.UserCollection, store.ByID(string(id)))
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (a *Auth) findByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := store.One[models.User](ctx, a.gw, models.UserCollection, store.Where().Eq("email", email))
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (a *Auth) issue(ctx context.Context, u *models.User) (string, error) {
	token, err := a.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return "", errors.Wrap(err, "issue token")
	}
	if err := a.gw.Push(ctx, models.UserCollection, string(u.ID), "tokens", token); err != nil {
		return "", storeErr(err, "user")
	}
	return token, nil
}
