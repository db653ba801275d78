package authService

import (
	"AttendanceGolang/internal/api/auth"
	"AttendanceGolang/internal/entity"
	contextPkg "AttendanceGolang/pkg/context"
	jwtPkg "AttendanceGolang/pkg/jwt"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

func (s *authService) RegisterUser(ctx context.Context, req auth.RegisterUserRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	role := entity.UserRole(req.Role)
	if !role.Valid() {
		return auth.ErrInvalidRole
	}

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return err
	}

	user := entity.User{
		ID:            id,
		Email:         req.Email,
		Name:          req.Name,
		Surname:       req.Surname,
		Role:          role,
		StudentNumber: req.StudentNumber,
		PhoneNumber:   req.PhoneNumber,
		Password:      hashedPassword,
	}

	if err := repo.Users.CreateUser(ctx, user); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create user")
		return err
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("User not found")
			return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get user by email")
		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to compare password")
		return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
	}

	userData := map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"role":           string(user.Role),
		"student_number": user.StudentNumber,
	}

	token, expired, err := jwtPkg.Sign(userData, time.Hour*1)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	res := auth.LoginUserResponse{
		AccessToken:      token,
		Role:             string(user.Role),
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}

	return res, nil
}

func (s *authService) GetByEmail(ctx context.Context, email string) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	user, err := repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return auth.UserResponse{}, err
	}

	return auth.NewUserResponse(user), nil
}
