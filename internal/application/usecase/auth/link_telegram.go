package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// LinkTelegramInput represents the credentials sent from a chat.
type LinkTelegramInput struct {
	ChatID   int64
	Email    string
	Password string
}

// LinkTelegramUseCase binds a Telegram chat to a user account.
type LinkTelegramUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
}

// NewLinkTelegramUseCase creates a new LinkTelegramUseCase instance.
func NewLinkTelegramUseCase(userRepo adapter.UserRepository, passwordService adapter.PasswordService) *LinkTelegramUseCase {
	return &LinkTelegramUseCase{userRepo: userRepo, passwordService: passwordService}
}

// Execute links the chat and returns the user.
func (uc *LinkTelegramUseCase) Execute(ctx context.Context, input LinkTelegramInput) (*entity.User, error) {
	user, err := Authenticate(ctx, uc.userRepo, uc.passwordService, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	owner, err := uc.userRepo.FindByTelegramChatID(ctx, input.ChatID)
	switch {
	case err == nil && owner.ID != user.ID:
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeChatAlreadyLinked,
			"this chat is linked to another account",
			domainerror.ErrChatAlreadyLinked,
		)
	case err == nil:
		return user, nil
	case !errors.Is(err, domainerror.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up chat: %w", err)
	}

	user.LinkTelegram(input.ChatID)
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}
	return user, nil
}
