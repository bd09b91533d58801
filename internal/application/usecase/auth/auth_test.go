package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/application/usecase/recurring"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

type memoryUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMemoryUserRepo(users ...*entity.User) *memoryUserRepo {
	r := &memoryUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *memoryUserRepo) FindByTelegramChatID(_ context.Context, chatID int64) (*entity.User, error) {
	for _, u := range r.users {
		if u.TelegramChatID == chatID {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *memoryUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memoryUserRepo) List(context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// plainPasswords stores passwords prefixed with "hash:".
type plainPasswords struct{}

func (plainPasswords) HashPassword(p string) (string, error) { return "hash:" + p, nil }

func (plainPasswords) VerifyPassword(hashed, p string) error {
	if hashed != "hash:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func (plainPasswords) ValidatePasswordStrength(p string) error {
	if len(p) < 8 || !strings.ContainsAny(p, "0123456789") {
		return domainerror.ErrWeakPassword
	}
	return nil
}

type fakeTokens struct {
	revoked map[string]bool
}

func (f *fakeTokens) GenerateTokenPair(_ context.Context, userID uuid.UUID, _ string) (*adapter.TokenPair, error) {
	return &adapter.TokenPair{AccessToken: "access-" + userID.String(), RefreshToken: "refresh-" + uuid.NewString()}, nil
}

func (f *fakeTokens) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (f *fakeTokens) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if !strings.HasPrefix(token, "refresh-") {
		return nil, domainerror.ErrInvalidToken
	}
	return &adapter.TokenClaims{UserID: uuid.New(), Email: "ana@example.com"}, nil
}

func (f *fakeTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return !f.revoked[token], nil
}

type fakeProcessor struct {
	calls int
	err   error
}

func (f *fakeProcessor) Execute(context.Context, recurring.ProcessRecurringInput) (*recurring.ProcessRecurringOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &recurring.ProcessRecurringOutput{Generated: 2}, nil
}

func TestRegisterUserUseCase(t *testing.T) {
	existing := entity.NewUser("ana@example.com", "Ana", "hash:secret123")

	tests := []struct {
		name     string
		email    string
		password string
		code     domainerror.AuthErrorCode
	}{
		{"missing fields", "", "", domainerror.ErrCodeMissingFields},
		{"invalid email", "not-an-email", "secret123", domainerror.ErrCodeInvalidEmail},
		{"weak password", "new@example.com", "short", domainerror.ErrCodeWeakPassword},
		{"password without digit", "new@example.com", "longpassword", domainerror.ErrCodeWeakPassword},
		{"existing email ignores case", " ANA@example.com ", "secret123", domainerror.ErrCodeEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewRegisterUserUseCase(newMemoryUserRepo(existing), plainPasswords{}, &fakeTokens{})

			_, err := uc.Execute(context.Background(), RegisterUserInput{Email: tt.email, Password: tt.password})

			var authErr *domainerror.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.code, authErr.Code)
		})
	}

	t.Run("success", func(t *testing.T) {
		repo := newMemoryUserRepo()
		out, err := NewRegisterUserUseCase(repo, plainPasswords{}, &fakeTokens{}).Execute(context.Background(), RegisterUserInput{Email: "Bia@Example.com", Password: "secret123"})
		require.NoError(t, err)

		assert.Equal(t, "bia@example.com", out.User.Email)
		assert.Equal(t, "bia", out.User.Name)
		assert.Equal(t, "hash:secret123", out.User.PasswordHash)
		assert.NotEmpty(t, out.AccessToken)
		assert.Len(t, repo.users, 1)
	})
}

func TestLoginUserUseCase(t *testing.T) {
	user := entity.NewUser("ana@example.com", "Ana", "hash:secret123")

	t.Run("success triggers recurring processing", func(t *testing.T) {
		processor := &fakeProcessor{}
		uc := NewLoginUserUseCase(newMemoryUserRepo(user), plainPasswords{}, &fakeTokens{}, processor)

		out, err := uc.Execute(context.Background(), LoginUserInput{Email: "ANA@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, out.User.ID)
		assert.Equal(t, 1, processor.calls)
		assert.Equal(t, 2, out.Generated)
	})

	t.Run("recurring failure does not block login", func(t *testing.T) {
		processor := &fakeProcessor{err: errors.New("db down")}
		uc := NewLoginUserUseCase(newMemoryUserRepo(user), plainPasswords{}, &fakeTokens{}, processor)

		out, err := uc.Execute(context.Background(), LoginUserInput{Email: user.Email, Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, out.AccessToken)
	})

	for _, in := range []LoginUserInput{
		{Email: user.Email, Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		t.Run("invalid credentials "+in.Email, func(t *testing.T) {
			processor := &fakeProcessor{}
			uc := NewLoginUserUseCase(newMemoryUserRepo(user), plainPasswords{}, &fakeTokens{}, processor)

			_, err := uc.Execute(context.Background(), in)

			var authErr *domainerror.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, domainerror.ErrCodeInvalidCredentials, authErr.Code)
			assert.Zero(t, processor.calls)
		})
	}

	t.Run("repository failure is not reported as bad credentials", func(t *testing.T) {
		dbErr := errors.New("db down")
		processor := &fakeProcessor{}
		uc := NewLoginUserUseCase(&failingUserRepo{err: dbErr}, plainPasswords{}, &fakeTokens{}, processor)

		_, err := uc.Execute(context.Background(), LoginUserInput{Email: user.Email, Password: "secret123"})

		require.ErrorIs(t, err, dbErr)
		var authErr *domainerror.AuthError
		assert.False(t, errors.As(err, &authErr))
		assert.Zero(t, processor.calls)
	})
}

// failingUserRepo fails every lookup with err.
type failingUserRepo struct {
	memoryUserRepo
	err error
}

func (r *failingUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, r.err
}

func TestRefreshTokenUseCase_Rotates(t *testing.T) {
	tokens := &fakeTokens{}
	uc := NewRefreshTokenUseCase(tokens)

	out, err := uc.Execute(context.Background(), RefreshTokenInput{RefreshToken: "refresh-1"})
	require.NoError(t, err)
	assert.NotEqual(t, "refresh-1", out.RefreshToken)

	_, err = uc.Execute(context.Background(), RefreshTokenInput{RefreshToken: "refresh-1"})
	var authErr *domainerror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domainerror.ErrCodeInvalidToken, authErr.Code)

	_, err = uc.Execute(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
}

func TestLogoutUserUseCase(t *testing.T) {
	tokens := &fakeTokens{}
	require.NoError(t, NewLogoutUserUseCase(tokens).Execute(context.Background(), LogoutUserInput{RefreshToken: "refresh-9"}))
	assert.True(t, tokens.revoked["refresh-9"])
}

func TestLinkTelegramUseCase(t *testing.T) {
	ana := entity.NewUser("ana@example.com", "Ana", "hash:secret123")
	bia := entity.NewUser("bia@example.com", "Bia", "hash:secret456")
	bia.LinkTelegram(99)
	repo := newMemoryUserRepo(ana, bia)
	uc := NewLinkTelegramUseCase(repo, plainPasswords{})

	t.Run("links a free chat", func(t *testing.T) {
		user, err := uc.Execute(context.Background(), LinkTelegramInput{ChatID: 42, Email: ana.Email, Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.TelegramChatID)
		assert.True(t, repo.users[ana.ID].HasTelegram())
	})

	t.Run("chat of another user", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LinkTelegramInput{ChatID: 99, Email: ana.Email, Password: "secret123"})
		var authErr *domainerror.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, domainerror.ErrCodeChatAlreadyLinked, authErr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LinkTelegramInput{ChatID: 7, Email: ana.Email, Password: "nope"})
		assert.ErrorIs(t, err, domainerror.ErrInvalidCredentials)
	})
}
