package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	log "github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

type AuthUsecase interface {
	Login(ctx context.Context, req models.TokenRequest) (*models.TokenResponse, error)
}

type authUsecase struct {
	issuer *auth.TokenIssuer
}

func NewAuthUsecase(issuer *auth.TokenIssuer) AuthUsecase {
	return &authUsecase{issuer: issuer}
}

func (uc *authUsecase) Login(ctx context.Context, req models.TokenRequest) (*models.TokenResponse, error) {
	token, err := uc.issuer.Issue(ctx, req.Username, req.Password)
	if err != nil {
		log.Infow(ctx, "login rejected", "username", req.Username)
		return nil, err
	}

	log.Infow(ctx, "token issued", "username", req.Username, "expires_at", token.ExpiresAt)
	return &models.TokenResponse{
		AccessToken: token.Value,
		TokenType:   "bearer",
		ExpiresIn:   int64(token.ExpiresAt.Sub(token.IssuedAt).Seconds()),
		ExpiresAt:   token.ExpiresAt,
	}, nil
}
