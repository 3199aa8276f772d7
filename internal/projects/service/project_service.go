package service

import (
	"context"
	"strings"
	"time"

	"github.com/roomify-labs/roomify-backend/internal/hosting"
	"github.com/roomify-labs/roomify-backend/internal/logutil"
	"github.com/roomify-labs/roomify-backend/internal/projects/domain"
	"github.com/roomify-labs/roomify-backend/internal/projects/repository"
)

// ProjectService orchestrates the upload-and-persist sequence: hosting
// config, source/rendered uploads, then the store write. Helpers prefer
// returning nil over errors so callers can degrade gracefully.
type ProjectService struct {
	repo     *repository.ProjectRepository
	manager  *hosting.Manager
	uploader *hosting.Uploader
}

func NewProjectService(repo *repository.ProjectRepository, manager *hosting.Manager, uploader *hosting.Uploader) *ProjectService {
	return &ProjectService{
		repo:     repo,
		manager:  manager,
		uploader: uploader,
	}
}

// Save creates or updates a project record for uid. Returns the stored
// record, or nil when authentication is absent, hosting is unavailable, no
// source image resolves, or the store write fails.
func (s *ProjectService) Save(ctx context.Context, uid string, p *domain.Project) *domain.Project {
	logger := logutil.NewLogger(ctx)

	if uid == "" || p == nil {
		return nil
	}

	hostingCfg := s.manager.GetOrCreate(ctx, uid)
	if hostingCfg == nil {
		logger.LogWarn("project_save", "hosting unavailable, aborting save")
		return nil
	}

	// A project arriving without an id gets a fresh one; records are never
	// keyed by the bare account id.
	if p.ID == "" {
		id, err := domain.NewProjectID()
		if err != nil {
			logger.LogError("project_id", err)
			return nil
		}
		p.ID = id
	}

	source := s.resolveUpload(ctx, hostingCfg, p.SourceImage, p.ID, hosting.LabelSource)
	if source == "" {
		logger.LogWarnf("project_save", "no resolvable source image for project %s", p.ID)
		return nil
	}
	p.SourceImage = source

	if p.RenderedImage != "" {
		// Rendered uploads are PNG-normalized by the uploader; a failed
		// rendered upload is not fatal, the field is simply dropped.
		p.RenderedImage = s.resolveUpload(ctx, hostingCfg, p.RenderedImage, p.ID, hosting.LabelRendered)
	}

	p.OwnerID = uid
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	p.StripTransient()

	if err := s.repo.Save(ctx, p); err != nil {
		logger.LogError("project_save", err)
		return nil
	}

	return p
}

// resolveUpload prefers the freshly hosted URL; an existing reference is
// reused only if it is already a hosted URL.
func (s *ProjectService) resolveUpload(ctx context.Context, cfg *hosting.Config, url, projectID, label string) string {
	if url == "" {
		return ""
	}

	if res := s.uploader.Upload(ctx, hosting.UploadRequest{
		Hosting:   cfg,
		URL:       url,
		ProjectID: projectID,
		Label:     label,
	}); res != nil {
		return res.URL
	}

	if strings.Contains(url, cfg.Host) {
		return url
	}
	return ""
}

// Get fetches a record by id. Not-found is reported with the domain
// sentinel so the HTTP layer can answer 404; other failures are logged.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if err != domain.ErrProjectNotFound {
			logutil.NewLogger(ctx).LogError("project_get", err)
		}
		return nil, err
	}
	return p, nil
}

// List returns the caller's projects, newest first. Always returns a slice.
func (s *ProjectService) List(ctx context.Context, uid string) []domain.Project {
	if uid == "" {
		return []domain.Project{}
	}

	out, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		logutil.NewLogger(ctx).LogError("project_list", err)
		return []domain.Project{}
	}
	return out
}
