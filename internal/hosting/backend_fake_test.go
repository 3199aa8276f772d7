package hosting

import (
	"context"
	"fmt"
	"sync"
)

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	mu         sync.Mutex
	namespaces map[string]bool
	dirs       map[string]int // slug/dir -> ensure count
	writes     map[string][]byte
	writeTypes map[string]string

	failCreate bool
	failWrite  bool
	failExists bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		namespaces: make(map[string]bool),
		dirs:       make(map[string]int),
		writes:     make(map[string][]byte),
		writeTypes: make(map[string]string),
	}
}

func (b *fakeBackend) NamespaceExists(ctx context.Context, slug string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failExists {
		return false, fmt.Errorf("backend unavailable")
	}
	return b.namespaces[slug], nil
}

func (b *fakeBackend) CreateNamespace(ctx context.Context, slug string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failCreate {
		return fmt.Errorf("namespace create refused")
	}
	b.namespaces[slug] = true
	return nil
}

func (b *fakeBackend) EnsureDir(ctx context.Context, slug, dir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirs[slug+"/"+dir]++
	return nil
}

func (b *fakeBackend) Write(ctx context.Context, slug, path string, body []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return fmt.Errorf("write refused")
	}
	key := slug + "/" + path
	b.writes[key] = append([]byte(nil), body...)
	b.writeTypes[key] = contentType
	return nil
}

func (b *fakeBackend) writeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}
