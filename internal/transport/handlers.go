// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type ImageHandler struct {
	service ImageService
}

type ImageService interface {
	Ingest(ctx context.Context, newImage *model.ImageCreateData) (*model.Image, error)
	Get(ctx context.Context, id int64) (*model.Image, error)
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Image, error) // получить список с пагинацией
	Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error)
	Delete(ctx context.Context, id int64) (*model.Image, error) // удаляется только запись каталога, не блоб
}

func NewImageHandler(svc ImageService) *ImageHandler {
	return &ImageHandler{
		service: svc,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) Upload(ctx *ginext.Context) {
	name := ctx.PostForm("name")
	tags := ctx.PostForm("tags")

	// парсинг исходника
	imageFile, imageHeader, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "file is required"})
		return
	}
	defer closeFileFlow(imageFile)

	// собираем все в структуру
	newImageRaw := model.ImageCreateData{
		Name:        name,
		Tags:        tags,
		File:        imageFile,
		Filename:    imageHeader.Filename,
		Size:        imageHeader.Size,
		ContentType: imageHeader.Header.Get("Content-Type"),
	}

	// передаем в сервис
	res, err := h.service.Ingest(ctx.Request.Context(), &newImageRaw)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h ImageHandler) GetAllImages(ctx *ginext.Context) {
	var req model.ListRequest

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse query-params"})
		return
	}

	res, err := h.service.GetList(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) GetByID(ctx *ginext.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Update(ctx *ginext.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	var upd model.ImageUpdateData
	if err := ctx.BindJSON(&upd); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse request body"})
		return
	}

	res, err := h.service.Update(ctx.Request.Context(), id, &upd)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Delete(ctx *ginext.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.service.Delete(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// отдаем удаленную запись - как подтверждение что именно удалили
	ctx.JSON(200, res)
}
