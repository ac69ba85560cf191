package service_test

import (
	"context"
	"testing"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/auth"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port/mock"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/service"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/utils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type prepareMocks func(repo *mock.MockRepository)

func TestUserService_Register(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	type userRegisterTest struct {
		name      string
		user      domain.User
		mock      prepareMocks
		expError  error
		expResult *domain.User
	}

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		ID:       1,
		Name:     "Test",
		Email:    "test@example.com",
		Password: hashedPass,
		Role:     domain.UserRoleCustomer,
	}

	tests := []userRegisterTest{
		{
			name: "Register good",
			user: domain.User{Name: user.Name, Email: user.Email, Password: "test"},
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(nil, domain.ErrDataNotFound)
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
						assert.Equal(t, domain.UserRoleCustomer, u.Role)
						return &user, nil
					})
			},
			expError:  nil,
			expResult: &user,
		},
		{
			name: "Register already exists",
			user: domain.User{Name: user.Name, Email: user.Email, Password: "test"},
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
			expError:  domain.ErrConflictingData,
			expResult: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			test.mock(repo)

			s, err := service.NewUserService(repo, ts, logger)
			assert.NoError(t, err)

			result, err := s.RegisterUser(context.Background(), &test.user)

			assert.Equal(t, test.expResult, result)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	type userLoginTest struct {
		name     string
		email    string
		password string
		mock     prepareMocks
		expError error
	}

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		ID:       1,
		Email:    "test@example.com",
		Password: hashedPass,
		Role:     domain.UserRoleAdmin,
	}

	tests := []userLoginTest{
		{
			name:     "Login good",
			email:    user.Email,
			password: "test",
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
			expError: nil,
		},
		{
			name:     "Password bad",
			email:    user.Email,
			password: "hacker",
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
			expError: domain.ErrInvalidCredentials,
		},
		{
			name:     "Email bad",
			email:    "hacker@example.com",
			password: "test",
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "hacker@example.com").Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts, err := auth.New()
			assert.NoError(t, err)
			test.mock(repo)

			s, err := service.NewUserService(repo, ts, logger)
			assert.NoError(t, err)

			token, err := s.LoginUser(context.Background(), test.email, test.password)
			assert.Equal(t, test.expError, err)

			if token != "" {
				payload, err := ts.VerifyToken(token)
				assert.NoError(t, err)
				assert.Equal(t, user.ID, payload.UserID)
				assert.Equal(t, user.Role, payload.Role)
			}
		})
	}
}
