package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// MOCK STORAGE - in-memory, потокобезопасный, для проверки деривативов

type memObject struct {
	data  []byte
	ctype string
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string]memObject
	getErr  error
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string]memObject)}
}

func (m *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if m.getErr != nil {
		return nil, "", m.getErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.ctype, nil
}

func (m *memStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = memObject{data: data, ctype: contentType}
	return nil
}

func (m *memStorage) object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	return obj.data, ok
}
