package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*Service, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)

	return NewService(userRepo, &config.Config{SecretKey: "test-secret"}), userRepo
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_CreateUser(t *testing.T) {
	t.Run("Cadastra gestor com email normalizado", func(t *testing.T) {
		service, userRepo := newService(t)

		userRepo.EXPECT().GetUserByEmail(gomock.Any(), "ana@agencia.com").Return(nil, nil)
		userRepo.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, domain.RoleManager, user.RoleID)
				assert.True(t, user.Active)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Segura123")))
				user.ID = 7
				return user, nil
			})

		user, err := service.CreateUser(context.Background(), &domain.User{
			Name:         "Ana",
			Lastname:     "Souza",
			Email:        " Ana@Agencia.com ",
			PasswordHash: "Segura123",
			RoleID:       domain.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.Equal(t, "ana@agencia.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("Dados obrigatórios ausentes", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.CreateUser(context.Background(), &domain.User{Email: "ana@agencia.com"})

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, authErr.Code)
	})

	t.Run("Senha fraca", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.CreateUser(context.Background(), &domain.User{
			Name: "Ana", Lastname: "Souza", Email: "ana@agencia.com", PasswordHash: "123",
		})

		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("Email já cadastrado", func(t *testing.T) {
		service, userRepo := newService(t)
		userRepo.EXPECT().GetUserByEmail(gomock.Any(), "ana@agencia.com").Return(&domain.User{ID: 1}, nil)

		_, err := service.CreateUser(context.Background(), &domain.User{
			Name: "Ana", Lastname: "Souza", Email: "ana@agencia.com", PasswordHash: "Segura123",
		})

		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestService_LoginUser(t *testing.T) {
	activeUser := func(t *testing.T) *domain.User {
		return &domain.User{
			ID:           3,
			Name:         "Ana",
			Email:        "ana@agencia.com",
			PasswordHash: hashPassword(t, "Segura123"),
			Active:       true,
			RoleID:       domain.RoleAdmin,
		}
	}

	t.Run("Gera token válido", func(t *testing.T) {
		service, userRepo := newService(t)
		userRepo.EXPECT().GetUserByEmail(gomock.Any(), "ana@agencia.com").Return(activeUser(t), nil)

		token, err := service.LoginUser(context.Background(), "ANA@agencia.com", "Segura123")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.UserID)
		assert.Equal(t, domain.RoleAdmin, claims.UserRoleID)
		assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
	})

	tests := []struct {
		name        string
		user        func(t *testing.T) *domain.User
		repoErr     error
		password    string
		expectedErr error
	}{
		{
			name:        "Usuário não encontrado",
			user:        func(*testing.T) *domain.User { return nil },
			password:    "Segura123",
			expectedErr: ErrUserNotFound,
		},
		{
			name: "Usuário desativado",
			user: func(t *testing.T) *domain.User {
				u := activeUser(t)
				u.Active = false
				return u
			},
			password:    "Segura123",
			expectedErr: ErrUserDisabled,
		},
		{
			name:        "Senha incorreta",
			user:        activeUser,
			password:    "Errada123",
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "Falha no banco",
			user:        func(*testing.T) *domain.User { return nil },
			repoErr:     errors.New("connection refused"),
			password:    "Segura123",
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo := newService(t)
			userRepo.EXPECT().GetUserByEmail(gomock.Any(), "ana@agencia.com").Return(tt.user(t), tt.repoErr)

			token, err := service.LoginUser(context.Background(), "ana@agencia.com", tt.password)

			assert.Error(t, err)
			assert.Empty(t, token)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.True(t, IsCredentialsError(err))
			}
		})
	}

	t.Run("Campos vazios", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.LoginUser(context.Background(), "", "")

		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_GetUserProfile(t *testing.T) {
	service, userRepo := newService(t)
	userRepo.EXPECT().GetUserByID(gomock.Any(), 3).Return(&domain.User{ID: 3, PasswordHash: "hash"}, nil)
	userRepo.EXPECT().GetUserByID(gomock.Any(), 4).Return(nil, nil)

	user, err := service.GetUserProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = service.GetUserProfile(context.Background(), 4)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := newService(t)

	t.Run("Assinatura de outra chave", func(t *testing.T) {
		token, err := generateJWT(&domain.User{ID: 1}, "outra-chave", time.Now())
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Token expirado", func(t *testing.T) {
		token, err := generateJWT(&domain.User{ID: 1}, "test-secret", time.Now().Add(-48*time.Hour))
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Segura123"))
	assert.Error(t, ValidatePasswordStrength("Curta1"))
	assert.Error(t, ValidatePasswordStrength("semmaiuscula1"))
	assert.Error(t, ValidatePasswordStrength("SEMMINUSCULA1"))
	assert.Error(t, ValidatePasswordStrength("SemNumero"))
}
