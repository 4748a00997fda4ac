package transport

import (
	"context"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/gin-gonic/gin"
)

type mockImageService struct {
	ingestFn  func(ctx context.Context, d *model.ImageCreateData) (*model.Image, error)
	getFn     func(ctx context.Context, id int64) (*model.Image, error)
	getListFn func(ctx context.Context, req *model.ListRequest) ([]model.Image, error)
	updateFn  func(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error)
	deleteFn  func(ctx context.Context, id int64) (*model.Image, error)
}

func (m *mockImageService) Ingest(ctx context.Context, d *model.ImageCreateData) (*model.Image, error) {
	return m.ingestFn(ctx, d)
}

func (m *mockImageService) Get(ctx context.Context, id int64) (*model.Image, error) {
	return m.getFn(ctx, id)
}

func (m *mockImageService) GetList(ctx context.Context, req *model.ListRequest) ([]model.Image, error) {
	return m.getListFn(ctx, req)
}

func (m *mockImageService) Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
	return m.updateFn(ctx, id, upd)
}

func (m *mockImageService) Delete(ctx context.Context, id int64) (*model.Image, error) {
	return m.deleteFn(ctx, id)
}

type mockUserService struct {
	registerFn     func(ctx context.Context, username, password string) (*model.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return m.registerFn(ctx, username, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	return m.authenticateFn(ctx, username, password)
}

type mockTokenIssuer struct {
	newTokenFn func(username string) (string, error)
}

func (m *mockTokenIssuer) NewToken(username string) (string, error) {
	return m.newTokenFn(username)
}

func init() {
	gin.SetMode(gin.TestMode)
}
