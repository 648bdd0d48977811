package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
)

var ErrAssetNotFound = errors.New("asset not found")

// Memory keeps uploaded assets in process. Used by tests and local runs.
type Memory struct {
	mu        sync.Mutex
	seq       int
	objects   map[string][]byte
	destroyed []string

	// FailDestroy makes every Destroy call return this error.
	FailDestroy error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Upload(ctx context.Context, folder Folder, file io.Reader, filename string) (Asset, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return Asset{}, fmt.Errorf("read upload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := path.Join(cloudinaryRoot, string(folder), fmt.Sprintf("%d-%s", m.seq, path.Base(filename)))
	m.objects[id] = data
	return Asset{URL: "memory://" + id, PublicID: id}, nil
}

func (m *Memory) Destroy(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDestroy != nil {
		return m.FailDestroy
	}
	if _, ok := m.objects[publicID]; !ok {
		return ErrAssetNotFound
	}
	delete(m.objects, publicID)
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

// Has reports whether publicID is currently stored.
func (m *Memory) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[publicID]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Destroyed lists the public ids removed so far, in order.
func (m *Memory) Destroyed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.destroyed...)
}
