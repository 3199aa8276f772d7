package hosting

import "context"

// Backend abstracts the file-hosting service: namespaces are subdomain-like
// slugs bound to a root directory, directories and writes are idempotent.
type Backend interface {
	// NamespaceExists reports whether slug still resolves on the backend.
	NamespaceExists(ctx context.Context, slug string) (bool, error)
	// CreateNamespace registers slug. Creating an already-owned namespace
	// is not an error.
	CreateNamespace(ctx context.Context, slug string) error
	// EnsureDir creates dir under the namespace. Safe to repeat.
	EnsureDir(ctx context.Context, slug, dir string) error
	// Write stores body at path under the namespace, overwriting any
	// previous object at the same path.
	Write(ctx context.Context, slug, path string, body []byte, contentType string) error
}
