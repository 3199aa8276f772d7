package hosting

import (
	"context"
	"fmt"
	"strings"

	"github.com/roomify-labs/roomify-backend/internal/imaging"
	"github.com/roomify-labs/roomify-backend/internal/logutil"
)

// Asset labels; (project id, label) uniquely determines the storage path.
const (
	LabelSource   = "source"
	LabelRendered = "rendered"
	LabelImage3D  = "image3d"
)

type UploadRequest struct {
	Hosting   *Config
	URL       string
	ProjectID string
	Label     string
}

type UploadResult struct {
	URL string
}

// Uploader writes image content under a deterministic per-project path and
// returns the publicly reachable URL.
type Uploader struct {
	backend   Backend
	converter *imaging.Converter
}

func NewUploader(backend Backend, converter *imaging.Converter) *Uploader {
	return &Uploader{backend: backend, converter: converter}
}

// Upload resolves the image, writes it to
// <root>/projects/<projectID>/<label>.<ext> and returns the public URL.
// Any step failure collapses the whole call to nil.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) *UploadResult {
	logger := logutil.NewLogger(ctx)

	if req.Hosting == nil || req.URL == "" {
		return nil
	}

	// Already hosted: return unchanged, no duplicate upload.
	if strings.Contains(req.URL, req.Hosting.Host) {
		return &UploadResult{URL: req.URL}
	}

	content, err := u.resolve(ctx, req)
	if err != nil {
		logger.LogError("upload_resolve", err)
		return nil
	}

	ext := imaging.ExtensionFor(content.ContentType, req.URL)
	dir := fmt.Sprintf("%s/projects/%s", req.Hosting.RootDir, req.ProjectID)
	path := fmt.Sprintf("%s/%s.%s", dir, req.Label, ext)

	if err := u.backend.EnsureDir(ctx, req.Hosting.Slug, dir); err != nil {
		logger.LogError("upload_dir", err)
		return nil
	}

	if err := u.backend.Write(ctx, req.Hosting.Slug, path, content.Bytes, content.ContentType); err != nil {
		logger.LogError("upload_write", err)
		return nil
	}

	// The namespace already points at the root dir, so the public path is
	// relative to it.
	rel := strings.TrimPrefix(path, req.Hosting.RootDir+"/")
	return &UploadResult{URL: "https://" + req.Hosting.Host + "/" + rel}
}

func (u *Uploader) resolve(ctx context.Context, req UploadRequest) (*imaging.Content, error) {
	content, err := u.converter.Resolve(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	// Rendered assets are normalized to PNG regardless of source format.
	if req.Label == LabelRendered {
		return imaging.ReencodePNG(content)
	}
	return content, nil
}
