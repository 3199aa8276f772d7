package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/roomify-labs/roomify-backend/internal/generation"
	"github.com/roomify-labs/roomify-backend/internal/hosting"
	"github.com/roomify-labs/roomify-backend/internal/logutil"
	"github.com/roomify-labs/roomify-backend/internal/projects/domain"
	"github.com/roomify-labs/roomify-backend/internal/projects/service"
)

// Viewer session states.
const (
	StatusLoading      = "loading"
	StatusReadyNo3D    = "ready-no-3d"
	StatusReadyWith3D  = "ready-with-3d"
	StatusGenerating3D = "generating-3d"
	StatusError        = "error"
	StatusError3D      = "error-3d"
)

// DefaultGenerationTimeout forces generating-3d into error-3d when the
// generation client has not resolved. The in-flight backend call is
// discarded, not cancelled from the backend's point of view.
const DefaultGenerationTimeout = 90 * time.Second

// Generator is the generation client surface the viewer needs.
type Generator interface {
	Generate3DView(ctx context.Context, imageURL string, opts *generation.Options) (*generation.ImageResult, error)
}

// Snapshot is the state reported to the UI.
type Snapshot struct {
	ProjectID string          `json:"projectId"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Project   *domain.Project `json:"project,omitempty"`
	View      ViewState       `json:"view"`
}

// Session tracks one project's viewer state.
type Session struct {
	mu        sync.Mutex
	projectID string
	ownerID   string
	status    string
	errMsg    string
	project   *domain.Project
	view      ViewState
	// genSeq invalidates late generation results after timeout or regenerate.
	genSeq    int
	lastTouch time.Time
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ProjectID: s.projectID,
		Status:    s.status,
		Error:     s.errMsg,
		Project:   s.project,
		View:      s.view,
	}
}

// Service manages viewer sessions and orchestrates load → generate →
// upload → update.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	projects  *service.ProjectService
	generator Generator
	manager   *hosting.Manager
	uploader  *hosting.Uploader
	timeout   time.Duration
}

func NewService(projects *service.ProjectService, generator Generator, manager *hosting.Manager, uploader *hosting.Uploader) *Service {
	return &Service{
		sessions:  make(map[string]*Session),
		projects:  projects,
		generator: generator,
		manager:   manager,
		uploader:  uploader,
		timeout:   DefaultGenerationTimeout,
	}
}

func (s *Service) session(projectID, uid string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[projectID]
	if !ok {
		sess = &Session{
			projectID: projectID,
			ownerID:   uid,
			status:    StatusLoading,
			view:      NewViewState(),
		}
		s.sessions[projectID] = sess
	}
	sess.lastTouch = time.Now()
	return sess
}

// Load fetches the project record and reports the resulting viewer state.
func (s *Service) Load(ctx context.Context, uid, projectID string) Snapshot {
	sess := s.session(projectID, uid)

	p, err := s.projects.Get(ctx, projectID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		sess.status = StatusError
		sess.errMsg = "project not found"
		sess.project = nil
		return sess.snapshotLocked()
	}

	sess.project = p
	// A load never interrupts an in-flight generation, and a failed
	// generation stays visible (so the UI can offer a retry) until a
	// regenerate or until the record has actually gained a 3D asset.
	if sess.status != StatusGenerating3D &&
		!(sess.status == StatusError3D && p.Image3D == "") {
		sess.errMsg = ""
		if p.Image3D != "" {
			sess.status = StatusReadyWith3D
		} else {
			sess.status = StatusReadyNo3D
		}
	}
	return sess.snapshotLocked()
}

// Generate starts 3D generation for the project. A duplicate trigger while
// one is in flight returns the current state unchanged.
func (s *Service) Generate(ctx context.Context, uid, projectID string) Snapshot {
	snap := s.Load(ctx, uid, projectID)
	if snap.Status == StatusError {
		return snap
	}

	sess := s.session(projectID, uid)

	sess.mu.Lock()
	if sess.status == StatusGenerating3D {
		defer sess.mu.Unlock()
		return sess.snapshotLocked()
	}

	sess.status = StatusGenerating3D
	sess.errMsg = ""
	sess.genSeq++
	seq := sess.genSeq
	sourceImage := sess.project.SourceImage
	sess.mu.Unlock()

	go s.runGeneration(uid, sess, seq, sourceImage)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked()
}

// Regenerate clears the previous 3D asset and pan/zoom state, then starts
// a fresh generation.
func (s *Service) Regenerate(ctx context.Context, uid, projectID string) Snapshot {
	sess := s.session(projectID, uid)

	sess.mu.Lock()
	if sess.status == StatusGenerating3D {
		defer sess.mu.Unlock()
		return sess.snapshotLocked()
	}

	if sess.project != nil && sess.project.Image3D != "" {
		cleared := *sess.project
		cleared.Image3D = ""
		if stored := s.projects.Save(ctx, uid, &cleared); stored != nil {
			sess.project = stored
		}
	}
	sess.view.ResetPanZoom()
	sess.mu.Unlock()

	return s.Generate(ctx, uid, projectID)
}

func (s *Service) runGeneration(uid string, sess *Session, seq int, sourceImage string) {
	logger := logutil.NewLogger(context.Background())

	genCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.generator.Generate3DView(genCtx, sourceImage, nil)

	sess.mu.Lock()
	if sess.genSeq != seq {
		// Superseded by a regenerate; discard whatever came back.
		sess.mu.Unlock()
		return
	}
	projectID := sess.projectID
	project := sess.project
	sess.mu.Unlock()

	if err != nil {
		logger.LogError("viewer_generate", err)
		s.fail(sess, seq, err.Error())
		return
	}

	// Hosting and persistence get their own deadline so a generation that
	// finishes near the timeout is not thrown away half-stored.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSave()

	hostedURL := s.hostResult(saveCtx, uid, projectID, result)
	if hostedURL == "" {
		s.fail(sess, seq, "failed to host generated image")
		return
	}

	updated := *project
	updated.Image3D = hostedURL
	stored := s.projects.Save(saveCtx, uid, &updated)
	if stored == nil {
		s.fail(sess, seq, "failed to persist generated image")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.genSeq != seq {
		return
	}
	sess.project = stored
	sess.status = StatusReadyWith3D
	sess.errMsg = ""
}

func (s *Service) hostResult(ctx context.Context, uid, projectID string, result *generation.ImageResult) string {
	cfg := s.manager.GetOrCreate(ctx, uid)
	if cfg == nil {
		return ""
	}

	res := s.uploader.Upload(ctx, hosting.UploadRequest{
		Hosting:   cfg,
		URL:       result.DataURL(),
		ProjectID: projectID,
		Label:     hosting.LabelImage3D,
	})
	if res == nil {
		return ""
	}
	return res.URL
}

func (s *Service) fail(sess *Session, seq int, msg string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.genSeq != seq {
		return
	}
	sess.status = StatusError3D
	sess.errMsg = msg
}

// SetView applies a view-mode or pan/zoom update and returns the new state.
func (s *Service) SetView(uid, projectID string, update ViewUpdate) Snapshot {
	sess := s.session(projectID, uid)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if update.Mode != "" {
		sess.view.SetMode(update.Mode)
	}
	if update.Pane != "" {
		if update.OffsetX != nil || update.OffsetY != nil {
			pz := sess.view.Panes[update.Pane]
			x, y := pz.OffsetX, pz.OffsetY
			if update.OffsetX != nil {
				x = *update.OffsetX
			}
			if update.OffsetY != nil {
				y = *update.OffsetY
			}
			sess.view.SetPan(update.Pane, x, y)
		}
		if update.Scale != nil {
			sess.view.SetZoom(update.Pane, *update.Scale)
		}
	}

	return sess.snapshotLocked()
}

// ViewUpdate is a discrete view-state event.
type ViewUpdate struct {
	Mode    string   `json:"mode,omitempty"`
	Pane    string   `json:"pane,omitempty"`
	OffsetX *float64 `json:"offsetX,omitempty"`
	OffsetY *float64 `json:"offsetY,omitempty"`
	Scale   *float64 `json:"scale,omitempty"`
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed. In-flight generations keep their session alive.
func (s *Service) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastTouch.Before(cutoff) && sess.status != StatusGenerating3D
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
