package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/UnendingLoop/ImageManager/internal/taskpool"
)

// MOCK REPOSITORY

type mockRepo struct {
	createFn  func(ctx context.Context, img *model.Image) error
	getFn     func(ctx context.Context, id int64) (*model.Image, error)
	getListFn func(ctx context.Context, skip, limit int) ([]model.Image, error)
	updateFn  func(ctx context.Context, img *model.Image) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockRepo) Create(ctx context.Context, img *model.Image) error {
	return m.createFn(ctx, img)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*model.Image, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) GetList(ctx context.Context, skip, limit int) ([]model.Image, error) {
	return m.getListFn(ctx, skip, limit)
}

func (m *mockRepo) Update(ctx context.Context, img *model.Image) error {
	return m.updateFn(ctx, img)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

// MOCK USER REPOSITORY

type mockUserRepo struct {
	createFn        func(ctx context.Context, u *model.User) error
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.getByUsernameFn(ctx, username)
}

// MOCK STORAGE

type mockStorage struct {
	putFn func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	getFn func(ctx context.Context, key string) (io.ReadCloser, string, error)
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

// MOCK PUBLISHER

type mockPublisher struct {
	publishFn func(ctx context.Context, event model.Event, imageID int64) error
}

func (m *mockPublisher) Publish(ctx context.Context, event model.Event, imageID int64) error {
	return m.publishFn(ctx, event, imageID)
}

// MOCK TRANSFORMER

type mockTransformer struct {
	transformFn func(ctx context.Context, filePath string) error
}

func (m *mockTransformer) Transform(ctx context.Context, filePath string) error {
	return m.transformFn(ctx, filePath)
}

// syncRunner - выполняет фоновые задачи синхронно, чтобы ассерты видели их эффекты
type syncRunner struct{}

func (syncRunner) Submit(task taskpool.Task) bool {
	task(context.Background())
	return true
}

// memCache - кэш без вытеснения для проверок cache-aside логики
type memCache struct {
	store map[string][]byte
	sets  int
}

func newMemCache() *memCache {
	return &memCache{store: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	v, ok := c.store[key]
	return v, ok
}

func (c *memCache) Set(key string, value []byte, _ time.Duration) {
	c.store[key] = value
	c.sets++
}

type fakeMultipartFile struct {
	*bytes.Reader
}

func (f *fakeMultipartFile) Close() error {
	return nil
}

func newFakeFile(content []byte) multipart.File {
	return &fakeMultipartFile{
		Reader: bytes.NewReader(content),
	}
}
