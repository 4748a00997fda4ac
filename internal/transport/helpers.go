package transport

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/UnendingLoop/ImageManager/internal/model"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500),
		errors.Is(err, model.ErrStorageWrite),
		errors.Is(err, model.ErrCatalogWrite):
		return 500
	case errors.Is(err, model.ErrImageNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return 404
	case errors.Is(err, model.ErrWrongCredentials),
		errors.Is(err, model.ErrUnauthorized):
		return 401
	case errors.Is(err, model.ErrIncorrectQuery),
		errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrUnsupportedFormat),
		errors.Is(err, model.ErrUserExists),
		errors.Is(err, model.ErrEmptyCredentials):
		return 400
	default:
		return 500
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrIncorrectID
	}
	return id, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
