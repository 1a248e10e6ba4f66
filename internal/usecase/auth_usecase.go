package usecase

import (
	"context"
	"errors"
	"strings"

	"patient-monitoring-service/internal/converter"
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"
	"patient-monitoring-service/internal/service"
	"patient-monitoring-service/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.CredentialResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, identity *entity.Identity, accessTokenID string, req *dto.LogoutRequest) error
	// Authenticate validates an access token and checks it has not been revoked.
	Authenticate(ctx context.Context, accessToken string) (*entity.Identity, string, error)
}

type authUsecase struct {
	transactor     repository.Transactor
	log            *logrus.Logger
	credentialRepo repository.CredentialRepository
	jwtService     *jwt.JWTService
	tokenStore     service.TokenStore
}

func NewAuthUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	credentialRepo repository.CredentialRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		transactor:     transactor,
		log:            log,
		credentialRepo: credentialRepo,
		jwtService:     jwtService,
		tokenStore:     tokenStore,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.CredentialResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	credential := &entity.Credential{
		ID:           uuid.New(),
		Subject:      uuid.New().String(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(req.FullName),
	}

	if err := u.credentialRepo.Create(u.transactor.DB(ctx), credential); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create credential: %+v", err)
		return nil, err
	}

	u.log.WithField("subject", credential.Subject).Info("Credential registered")

	return converter.CredentialToResponse(credential), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	credential, err := u.credentialRepo.FindByEmail(u.transactor.DB(ctx), normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find credential by email: %+v", err)
		return nil, err
	}
	if credential == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, credential.Identity())
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	active, err := u.tokenStore.ConsumeRefreshToken(ctx, claims.Subject, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if !active {
		return nil, ErrTokenRevoked
	}

	// Re-read the account so renamed users get fresh claims.
	credential, err := u.credentialRepo.FindBySubject(u.transactor.DB(ctx), claims.Subject)
	if err != nil {
		u.log.Warnf("Failed to find credential by subject: %+v", err)
		return nil, err
	}
	if credential == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, credential.Identity())
}

func (u *authUsecase) Logout(ctx context.Context, identity *entity.Identity, accessTokenID string, req *dto.LogoutRequest) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	refreshTokenID := ""
	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		// A refresh token of another subject is ignored rather than revoked.
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.Subject == identity.Subject {
			refreshTokenID = claims.TokenID
		}
	}

	if err := u.tokenStore.Revoke(ctx, identity.Subject, accessTokenID, refreshTokenID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.Identity, string, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil, "", ErrInvalidToken
	}

	active, err := u.tokenStore.IsAccessTokenActive(ctx, claims.Subject, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check access token: %+v", err)
		return nil, "", err
	}
	if !active {
		return nil, "", ErrTokenRevoked
	}

	return claims.Identity(), claims.TokenID, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, identity entity.Identity) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	err = u.tokenStore.StorePair(ctx, identity.Subject, accessTokenID, refreshTokenID,
		u.jwtService.GetAccessExpiry(), u.jwtService.GetRefreshExpiry())
	if err != nil {
		u.log.Warnf("Failed to store tokens: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
