package main

import (
	"context"

	"github.com/UnendingLoop/ImageManager/internal/model"
)

type ImageAPIService interface {
	Ingest(ctx context.Context, data *model.ImageCreateData) (*model.Image, error)
	Get(ctx context.Context, id int64) (*model.Image, error)
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Image, error)
	Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error)
	Delete(ctx context.Context, id int64) (*model.Image, error)
}
