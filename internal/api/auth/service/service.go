package authService

import (
	"AttendanceGolang/internal/api/auth"
	authRepository "AttendanceGolang/internal/api/auth/repository"
	"AttendanceGolang/pkg/bcrypt"
	"AttendanceGolang/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	RegisterUser(c context.Context, req auth.RegisterUserRequest) error
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
	GetByEmail(c context.Context, email string) (auth.UserResponse, error)
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	repo authRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: repo,
		bcryptUtils:    bcryptUtils,
		utils:          utils,
	}
}
