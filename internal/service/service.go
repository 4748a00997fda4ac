// Package service provides business-logic for the app
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/imageproc"
	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/UnendingLoop/ImageManager/internal/mwlogger"
	"github.com/UnendingLoop/ImageManager/internal/repository"
	"github.com/UnendingLoop/ImageManager/internal/taskpool"
	"github.com/wb-go/wbf/zlog"
)

// ImageStorage - контракт для работы с хранилищем
type ImageStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
}

// EventPublisher - контракт для публикации событий жизненного цикла в очередь
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event, imageID int64) error
}

// Transformer - контракт генерации деривативов
type Transformer interface {
	Transform(ctx context.Context, filePath string) error
}

// TaskRunner - передача фоновых задач в пул, без ожидания результата
type TaskRunner interface {
	Submit(task taskpool.Task) bool
}

// PageCache - контракт кэша страниц листинга
type PageCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// listCacheTTL - окно допустимой несвежести листинга (см. GetList)
const listCacheTTL = 60 * time.Second

type ImageService struct {
	repo        repository.ImageRepo
	storage     ImageStorage
	publisher   EventPublisher
	transformer Transformer
	pool        TaskRunner
	cache       PageCache
	keyPrefix   string
}

func NewImageService(repo repository.ImageRepo, strg ImageStorage, pub EventPublisher, tr Transformer, pool TaskRunner, cache PageCache) *ImageService {
	return &ImageService{
		repo:        repo,
		storage:     strg,
		publisher:   pub,
		transformer: tr,
		pool:        pool,
		cache:       cache,
		keyPrefix:   "uploads/",
	}
}

// Ingest - критический путь загрузки: блоб -> метаданные -> запись в каталог.
// Деривативы и событие uploaded уходят в фон и на ответ клиенту не влияют.
func (s *ImageService) Ingest(ctx context.Context, data *model.ImageCreateData) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if err := validateCreateData(data); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(data.File)
	if err != nil || len(raw) == 0 {
		logger.Error().Err(err).Msg("Failed to read uploaded file")
		return nil, model.ErrEmptySource
	}

	// ключ вида uploads/{uuid}_{имя файла} - коллизии считаем пренебрежимо маловероятными
	key := s.buildStorageKey(data)

	if err := s.storage.Put(ctx, key, int64(len(raw)), data.ContentType, bytes.NewReader(raw)); err != nil {
		logger.Error().Err(err).Msg("Failed to save src-image in Storage")
		return nil, model.ErrStorageWrite
	}

	// метаданные считаем синхронно до записи в каталог - позже они не пересчитываются
	resolution, err := imageproc.Metadata(bytes.NewReader(raw))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to extract metadata from uploaded file")
		return nil, model.ErrUnsupportedFormat
	}

	newImage := &model.Image{
		Name:       data.Name,
		FilePath:   key,
		UploadDate: time.Now().UTC(),
		Resolution: resolution,
		Size:       int64(len(raw)),
		Tags:       data.Tags,
	}

	// блоб уже записан: при отказе каталога он остается сиротой - принятая утечка
	if err := withCatalogRetry(func() error { return s.repo.Create(ctx, newImage) }); err != nil {
		logger.Error().Err(err).Msg("Failed to create image in DB")
		return nil, model.ErrCatalogWrite
	}

	s.scheduleTransform(newImage.FilePath)
	s.schedulePublish(model.EventUploaded, newImage.ID)

	return newImage, nil
}

func (s *ImageService) Get(ctx context.Context, id int64) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	res, err := fetchWithCatalogRetry(func() (*model.Image, error) { return s.repo.Get(ctx, id) })
	if err != nil {
		if isPermanent(err) {
			return nil, err
		}
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch image %d from DB", id))
		return nil, model.ErrCommon500
	}

	return res, nil
}

// GetList - cache-aside поверх каталога. Записи кэш не инвалидируют,
// поэтому изменения могут быть не видны в выдаче до listCacheTTL.
func (s *ImageService) GetList(ctx context.Context, req *model.ListRequest) ([]model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	validateQueryParams(req)

	cacheKey := fmt.Sprintf("images:%d:%d", req.Skip, req.Limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		var page []model.Image
		if err := json.Unmarshal(cached, &page); err == nil {
			return page, nil
		}
		logger.Warn().Msg("Failed to unmarshal cached listing page, falling back to DB")
	}

	res, err := fetchWithCatalogRetry(func() ([]model.Image, error) { return s.repo.GetList(ctx, req.Skip, req.Limit) })
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch images list from DB")
		return nil, model.ErrCommon500
	}

	if serialized, err := json.Marshal(res); err == nil {
		s.cache.Set(cacheKey, serialized, listCacheTTL)
	}

	return res, nil
}

// Update - меняет только переданные поля, метаданные и деривативы не пересчитываются
func (s *ImageService) Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		img.Name = *upd.Name
	}
	if upd.Tags != nil {
		img.Tags = *upd.Tags
	}

	if err := withCatalogRetry(func() error { return s.repo.Update(ctx, img) }); err != nil {
		if isPermanent(err) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to update image in DB")
		return nil, model.ErrCommon500
	}

	s.schedulePublish(model.EventUpdated, img.ID)

	return img, nil
}

// Delete - удаляет только запись каталога; байты блоба не трогаем (принятая утечка).
// Несуществующий id - ErrImageNotFound, событие при этом не публикуется.
func (s *ImageService) Delete(ctx context.Context, id int64) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := withCatalogRetry(func() error { return s.repo.Delete(ctx, id) }); err != nil {
		if isPermanent(err) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to delete image from DB")
		return nil, model.ErrCommon500
	}

	s.schedulePublish(model.EventDeleted, img.ID)

	return img, nil
}

// scheduleTransform - fire-and-forget: ошибки логируются и глотаются, запрос от них не зависит
func (s *ImageService) scheduleTransform(filePath string) {
	s.pool.Submit(func(ctx context.Context) {
		if err := s.transformer.Transform(ctx, filePath); err != nil {
			zlog.Logger.Error().Err(err).Msg(fmt.Sprintf("Background transform failed for %q", filePath))
		}
	})
}

func (s *ImageService) schedulePublish(event model.Event, imageID int64) {
	s.pool.Submit(func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, event, imageID); err != nil {
			zlog.Logger.Error().Err(err).Msg(fmt.Sprintf("Background publish of %q failed for image %d", event, imageID))
		}
	})
}
