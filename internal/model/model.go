// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"mime/multipart"
	"time"
)

type Event string

const (
	EventUploaded Event = "uploaded"
	EventUpdated  Event = "updated"
	EventDeleted  Event = "deleted"
)

//---------------------

type Image struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	UploadDate time.Time `json:"upload_date"`
	Resolution string    `json:"resolution"`
	Size       int64     `json:"size"`
	Tags       string    `json:"tags,omitempty"`
}

type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
}

//-------------------

type ListRequest struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

type ImageCreateData struct {
	Name        string
	Tags        string
	File        multipart.File
	Filename    string
	Size        int64
	ContentType string
}

// ImageUpdateData - nil-поля не трогаем, меняем только переданные
type ImageUpdateData struct {
	Name *string `json:"name"`
	Tags *string `json:"tags"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EventMessage - тело сообщения в очереди для даунстрим-консюмеров
type EventMessage struct {
	Event Event        `json:"event"`
	Data  EventPayload `json:"data"`
}

type EventPayload struct {
	ImageID int64 `json:"image_id"`
}

// ------------------

var (
	ErrCommon500         error = errors.New("something went wrong. Try again later")   // 500
	ErrStorageWrite      error = errors.New("failed to store file")                    // 500
	ErrCatalogWrite      error = errors.New("failed to save image record")             // 500
	ErrIncorrectQuery    error = errors.New("incorrect query parameters")              // 400
	ErrIncorrectID       error = errors.New("incorrect image ID")                      // 400
	ErrImageNotFound     error = errors.New("specified image ID doesn't exist")        // 404
	ErrEmptyName         error = errors.New("image name must not be empty")            // 400
	ErrEmptySource       error = errors.New("empty/incorrect source image provided")   // 400
	ErrUnsupportedFormat error = errors.New("unsupported image format")                // 400
	ErrUserExists        error = errors.New("username already registered")             // 400
	ErrEmptyCredentials  error = errors.New("username and password must not be empty") // 400
	ErrUserNotFound      error = errors.New("specified user doesn't exist")            // 404
	ErrWrongCredentials  error = errors.New("incorrect username or password")          // 401
	ErrUnauthorized      error = errors.New("could not validate credentials")          // 401
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}

var InImageTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	GIF:  true,
}
