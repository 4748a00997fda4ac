package service

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

// Политика ретраев для операций каталога - можно потом вынести значения в конфиг/env
var catalogRetry = retry.Strategy{
	Attempts: 3,
	Delay:    1 * time.Second,
	Backoff:  1.0,
}

// isPermanent - такие ошибки ретраить бессмысленно: повтор даст тот же результат
func isPermanent(err error) bool {
	return errors.Is(err, model.ErrImageNotFound) ||
		errors.Is(err, model.ErrUserNotFound) ||
		errors.Is(err, model.ErrUserExists)
}

// withCatalogRetry - ограниченный ретрай вокруг вызова каталога;
// permanent-ошибки выходят сразу, не выедая попытки
func withCatalogRetry(fn func() error) error {
	var permanent error

	err := retry.Do(func() error {
		err := fn()
		if err != nil && isPermanent(err) {
			permanent = err
			return nil
		}
		return err
	}, catalogRetry)

	if permanent != nil {
		return permanent
	}
	return err
}

func fetchWithCatalogRetry[T any](fn func() (T, error)) (T, error) {
	var res T
	err := withCatalogRetry(func() error {
		var fnErr error
		res, fnErr = fn()
		return fnErr
	})
	return res, err
}

func validateCreateData(data *model.ImageCreateData) error {
	if data.Name == "" {
		return model.ErrEmptyName
	}
	if data.File == nil {
		return model.ErrEmptySource
	}
	if !model.InImageTypeMap[data.ContentType] {
		return model.ErrUnsupportedFormat
	}
	return nil
}

func validateQueryParams(req *model.ListRequest) {
	// Обрабатываем пустые значения, присваиваем дефолты если надо
	if req.Skip < 0 {
		req.Skip = 0
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
}

// buildStorageKey - uploads/{uuid}_{имя файла}; расширение нужно воркеру
// для именования деривативов, поэтому достраиваем его из content-type если в имени его нет
func (s *ImageService) buildStorageKey(data *model.ImageCreateData) string {
	filename := filepath.Base(data.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = "image"
	}
	if filepath.Ext(filename) == "" {
		filename += model.GetImageFileExt[data.ContentType]
	}
	return s.keyPrefix + uuid.New().String() + "_" + filename
}
