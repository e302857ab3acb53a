package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
)

type Auth struct {
	userStore    model.UserStore
	noteStore    model.NoteStore
	balances     model.BalanceProvider
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	noteStore model.NoteStore,
	balances model.BalanceProvider,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		noteStore:    noteStore,
		balances:     balances,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	a.logger.Debug("Auth service: registering user",
		"email", params.Email)

	existingUser, err := a.userStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: email already registered",
			"email", params.Email)
		return model.Session{}, apierrors.NewErrEmailTaken(params.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: string(hash),
		Name:         params.Name,
		University:   params.University,
		Earnings:     0,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", user.Email,
		"user_id", user.ID)

	return a.openSession(ctx, user)
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	a.logger.Debug("Auth service: logging in user",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"email", email)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}

	return a.openSession(ctx, user)
}

func (a *Auth) openSession(ctx context.Context, user model.User) (model.Session, error) {
	access, refresh, err := a.tokenService.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         user,
	}, nil
}

// Authenticate resolves a bearer access token to its user. Any parse failure
// or missing user yields the same unauthorized error.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	details, err := a.tokenService.ParseAccess(accessToken)
	if err != nil {
		return model.User{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	user, err := a.userStore.GetByID(ctx, details.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrInvalidAuthorizationToken()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	access, refresh, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, model.ErrTokenRevoked) || errors.Is(err, model.ErrTokenExpired) ||
			errors.Is(err, model.ErrTokenMismatch) || errors.Is(err, model.ErrNotFound) {
			return model.Session{}, apierrors.NewErrInvalidAuthorizationToken()
		}
		return model.Session{}, fmt.Errorf("failed to refresh tokens: %w", err)
	}

	return model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	if err := a.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		return apierrors.NewErrInvalidAuthorizationToken()
	}
	return nil
}

func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateProfileParams) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.University != nil {
		user.University = *params.University
	}
	if params.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user, err = a.userStore.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	// Password change invalidates all outstanding refresh tokens.
	if params.Password != nil {
		if err := a.tokenService.RevokeAllForUser(ctx, userID); err != nil {
			return model.User{}, fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
	}

	a.logger.Info("Auth service: profile updated",
		"user_id", userID)

	return user, nil
}

// Profile assembles the per-user dashboard view. Withdrawn and available
// balance are recomputed from withdrawal history on every read.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	balance, err := a.balances.Balance(ctx, user)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to compute balance: %w", err)
	}

	uploaded, err := a.noteStore.CountByOwnerID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to count uploaded notes: %w", err)
	}

	purchased, err := a.userStore.GetPurchasedNoteIDs(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get purchased note ids: %w", err)
	}

	return model.Profile{
		Email:            user.Email,
		Name:             user.Name,
		University:       user.University,
		Earnings:         balance.Earnings,
		Withdrawn:        balance.Withdrawn,
		AvailableBalance: balance.Available,
		CanWithdraw:      balance.CanWithdraw,
		NotesUploaded:    uploaded,
		NotesPurchased:   len(purchased),
		CreatedAt:        user.CreatedAt,
	}, nil
}
