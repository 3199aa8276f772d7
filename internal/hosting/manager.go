package hosting

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/roomify-labs/roomify-backend/internal/logutil"
)

// Manager resolves the per-account hosting namespace: at most one namespace
// per account in steady state, recreated only when the recorded one no
// longer resolves.
type Manager struct {
	repo         *ConfigRepository
	backend      Backend
	rootDir      string
	domainSuffix string
}

func NewManager(repo *ConfigRepository, backend Backend, rootDir, domainSuffix string) *Manager {
	return &Manager{
		repo:         repo,
		backend:      backend,
		rootDir:      rootDir,
		domainSuffix: domainSuffix,
	}
}

// GetOrCreate returns the account's hosting config, creating it on first
// use. Callers must treat nil as "hosting unavailable" and abort dependent
// operations.
func (m *Manager) GetOrCreate(ctx context.Context, uid string) *Config {
	logger := logutil.NewLogger(ctx)

	if uid == "" {
		return nil
	}

	cached, err := m.repo.Get(ctx, uid)
	if err != nil {
		logger.LogError("hosting_config_lookup", err)
	}

	if cached != nil {
		if cfg := m.verify(ctx, cached, logger); cfg != nil {
			return cfg
		}
		logger.LogWarnf("hosting_config_verify", "namespace %s no longer resolves, recreating", cached.Slug)
	}

	return m.create(ctx, uid, logger)
}

// verify checks that the cached namespace still resolves, then re-binds its
// root directory (idempotent).
func (m *Manager) verify(ctx context.Context, cfg *Config, logger *logutil.Logger) *Config {
	exists, err := m.backend.NamespaceExists(ctx, cfg.Slug)
	if err != nil {
		logger.LogError("hosting_namespace_check", err)
		return nil
	}
	if !exists {
		return nil
	}

	if err := m.backend.EnsureDir(ctx, cfg.Slug, cfg.RootDir); err != nil {
		logger.LogError("hosting_dir_rebind", err)
		return nil
	}

	return cfg
}

func (m *Manager) create(ctx context.Context, uid string, logger *logutil.Logger) *Config {
	slug := newSlug()

	if err := m.backend.CreateNamespace(ctx, slug); err != nil {
		logger.LogError("hosting_namespace_create", err)
		return nil
	}

	if err := m.backend.EnsureDir(ctx, slug, m.rootDir); err != nil {
		logger.LogError("hosting_dir_create", err)
		return nil
	}

	cfg := &Config{
		Slug:      slug,
		Host:      slug + m.domainSuffix,
		RootDir:   m.rootDir,
		CreatedAt: time.Now(),
	}

	if err := m.repo.Save(ctx, uid, cfg); err != nil {
		logger.LogError("hosting_config_save", err)
		return nil
	}

	logger.LogInfof("hosting_config_create", "created namespace %s for uid=%s", slug, uid)
	return cfg
}

// newSlug mints a unique namespace slug: timestamp base36 plus a random
// suffix to avoid collision.
func newSlug() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "roomify-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(b)
}
