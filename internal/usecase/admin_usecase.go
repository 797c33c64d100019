package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/observability"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/util"
)

type AdminUsecase struct {
	AdminRepository *repository.AdminRepository
	Log             *zap.Logger
	Config          *koanf.Koanf
}

func NewAdminUsecase(adminRepository *repository.AdminRepository, zap *zap.Logger, koanf *koanf.Koanf) *AdminUsecase {
	return &AdminUsecase{
		AdminRepository: adminRepository,
		Log:             zap,
		Config:          koanf,
	}
}

func invalidCredentials() *model.ValidationError {
	return &model.ValidationError{
		Code:    constant.ERR_UNAUTHORIZED_ERROR,
		Message: "Password is incorrect",
		Param:   "password",
	}
}

// Login exchanges the admin password for an access token. The token hash is
// kept in Redis so logout can revoke it before it expires.
func (usecase *AdminUsecase) Login(ctx context.Context, payload model.AdminLoginRequest) (model.TokenResponse, error) {
	err := payload.Validate()
	if err != nil {
		return model.TokenResponse{}, err
	}

	log := observability.WithContext(ctx, usecase.Log)

	passwordHash := usecase.Config.String("ADMIN_PASSWORD_HASH")
	if passwordHash == "" {
		log.Warn("admin login attempted without ADMIN_PASSWORD_HASH configured")
		return model.TokenResponse{}, invalidCredentials()
	}

	err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(payload.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Info("admin login rejected")
			return model.TokenResponse{}, invalidCredentials()
		}
		return model.TokenResponse{}, err
	}

	token, err := util.GenerateAdminToken(usecase.Config.String("JWT_SECRET_KEY"), time.Now())
	if err != nil {
		return model.TokenResponse{}, err
	}

	err = usecase.AdminRepository.SetAdminToken(ctx, util.HashToken(token.AccessToken), util.AdminTokenDuration)
	if err != nil {
		return model.TokenResponse{}, err
	}

	log.Info("admin logged in")

	return token, nil
}

// Authorize checks the Authorization header and returns the raw token when it
// is valid and has not been revoked.
func (usecase *AdminUsecase) Authorize(ctx context.Context, authHeader string) (string, error) {
	token, err := util.ValidateAdminToken(authHeader, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return "", err
	}

	hashed := util.HashToken(token)
	stored, err := usecase.AdminRepository.GetAdminToken(ctx, hashed)
	if err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashed)) != 1 {
		return "", &model.ValidationError{
			Code:    constant.ERR_UNAUTHORIZED_ERROR,
			Message: "Authentication token has been revoked",
			Param:   "accessToken",
		}
	}

	return token, nil
}

func (usecase *AdminUsecase) Logout(ctx context.Context, token string) error {
	return usecase.AdminRepository.RemoveAdminToken(ctx, util.HashToken(token))
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}
