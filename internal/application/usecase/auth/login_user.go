package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/application/usecase/recurring"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// RecurringProcessor generates the due recurring transactions of a user.
type RecurringProcessor interface {
	Execute(ctx context.Context, input recurring.ProcessRecurringInput) (*recurring.ProcessRecurringOutput, error)
}

// LoginUserInput represents the input for user login.
type LoginUserInput struct {
	Email    string
	Password string
}

// LoginUserOutput represents the output of user login.
type LoginUserOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
	Generated    int // recurring transactions generated on this login
}

// LoginUserUseCase handles user login logic.
type LoginUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
	recurring       RecurringProcessor
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance. processor may
// be nil.
func NewLoginUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	processor RecurringProcessor,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		recurring:       processor,
	}
}

// Execute performs the user login.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	user, err := Authenticate(ctx, uc.userRepo, uc.passwordService, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	out := &LoginUserOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}

	// Recurring failures never block a login
	if uc.recurring != nil {
		result, err := uc.recurring.Execute(ctx, recurring.ProcessRecurringInput{UserID: user.ID})
		if err != nil {
			slog.Error("Failed to process recurring items on login", "error", err, "userID", user.ID)
		}
		if result != nil {
			out.Generated = result.Generated
		}
	}

	return out, nil
}

// Authenticate returns the user owning email when password matches. An
// unknown email and a wrong password yield the same error.
func Authenticate(ctx context.Context, users adapter.UserRepository, passwords adapter.PasswordService, email, password string) (*entity.User, error) {
	user, err := users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := passwords.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}
	return user, nil
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}
