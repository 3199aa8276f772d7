package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-labs/roomify-backend/internal/auth"
	"github.com/roomify-labs/roomify-backend/internal/hosting"
	"github.com/roomify-labs/roomify-backend/internal/imaging"
	"github.com/roomify-labs/roomify-backend/internal/projects/repository"
	"github.com/roomify-labs/roomify-backend/internal/projects/service"
)

type memBackend struct {
	spaces map[string]bool
}

func (b *memBackend) NamespaceExists(ctx context.Context, slug string) (bool, error) {
	return b.spaces[slug], nil
}

func (b *memBackend) CreateNamespace(ctx context.Context, slug string) error {
	if b.spaces == nil {
		b.spaces = make(map[string]bool)
	}
	b.spaces[slug] = true
	return nil
}

func (b *memBackend) EnsureDir(ctx context.Context, slug, dir string) error { return nil }

func (b *memBackend) Write(ctx context.Context, slug, path string, body []byte, contentType string) error {
	return nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := &memBackend{}
	manager := hosting.NewManager(hosting.NewConfigRepository(client), backend, "roomify-hosting", ".roomify.site")
	uploader := hosting.NewUploader(backend, imaging.NewConverter())
	svc := service.NewProjectService(repository.NewProjectRepository(client), manager, uploader)

	r := gin.New()
	grp := r.Group("/api/projects", auth.DevUser())
	NewHandler(svc).Register(grp)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, uid, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != "" {
		req.Header.Set("X-User-Id", uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func saveBody(t *testing.T) string {
	t.Helper()
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-ish"))
	return fmt.Sprintf(`{"project":{"name":"Flat","sourceImage":%q}}`, src)
}

func TestHandler_Save(t *testing.T) {
	r := testRouter(t)

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/projects/save", "", saveBody(t))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a body without a project", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/projects/save", "user-1", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed body")
	})

	t.Run("rejects a project without a source image", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/projects/save", "user-1", `{"project":{"name":"Flat"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "sourceImage is required")
	})

	t.Run("saves and returns the stored project", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/projects/save", "user-1", saveBody(t))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Saved   bool `json:"saved"`
			ID      string
			Project struct {
				SourceImage string `json:"sourceImage"`
				OwnerID     string `json:"ownerId"`
			} `json:"project"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Saved)
		assert.NotEmpty(t, resp.ID)
		assert.True(t, strings.HasPrefix(resp.Project.SourceImage, "https://"), resp.Project.SourceImage)
		assert.Equal(t, "user-1", resp.Project.OwnerID)
	})
}

func TestHandler_Get(t *testing.T) {
	r := testRouter(t)

	t.Run("requires an id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/projects/get", "user-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404s on a missing project", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/projects/get?id=nope", "user-1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")
	})

	t.Run("returns a saved project to any caller", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/projects/save", "user-1", saveBody(t))
		require.Equal(t, http.StatusOK, w.Code)
		var saved struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

		// Project records are readable without authentication.
		w = doJSON(t, r, http.MethodGet, "/api/projects/get?id="+saved.ID, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	r := testRouter(t)

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/projects/list", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns an empty list for a new user", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/projects/list", "fresh-user", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"projects":[]}`, w.Body.String())
	})

	t.Run("only lists the caller's projects", func(t *testing.T) {
		require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/projects/save", "alice", saveBody(t)).Code)
		require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/projects/save", "bob", saveBody(t)).Code)

		w := doJSON(t, r, http.MethodGet, "/api/projects/list", "alice", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Projects []struct {
				OwnerID string `json:"ownerId"`
			} `json:"projects"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, "alice", resp.Projects[0].OwnerID)
	})
}
