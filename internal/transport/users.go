package transport

import (
	"context"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type AuthHandler struct {
	service UserService
	tokens  TokenIssuer
}

type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type TokenIssuer interface {
	NewToken(username string) (string, error)
}

func NewAuthHandler(svc UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		service: svc,
		tokens:  tokens,
	}
}

func (h AuthHandler) Signup(ctx *ginext.Context) {
	var creds model.Credentials
	if err := ctx.BindJSON(&creds); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse request body"})
		return
	}

	user, err := h.service.Register(ctx.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, user)
}

func (h AuthHandler) Token(ctx *ginext.Context) {
	var creds model.Credentials
	if err := ctx.BindJSON(&creds); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse request body"})
		return
	}

	user, err := h.service.Authenticate(ctx.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	token, err := h.tokens.NewToken(user.Username)
	if err != nil {
		ctx.JSON(500, map[string]string{"error": model.ErrCommon500.Error()})
		return
	}

	ctx.JSON(200, map[string]string{"access_token": token, "token_type": "bearer"})
}
