package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roomify-labs/roomify-backend/internal/projects/domain"
)

const (
	projectKeyPrefix     = "project:"       // project:{project_id}
	userProjectSetPrefix = "projects:user:" // set of project ids per owner
)

// ProjectRepository handles key-value store operations for project records.
// Writes are last-write-wins; there is no locking across concurrent saves.
type ProjectRepository struct {
	client *redis.Client
}

func NewProjectRepository(client *redis.Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Save stores the record under its composite key and indexes it for the
// owner. The update timestamp is always stamped server-side.
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	if p.SourceImage == "" {
		return domain.ErrMissingSourceImage
	}
	if p.ID == "" {
		return fmt.Errorf("project id required")
	}

	p.UpdatedAt = time.Now().UnixMilli()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, projectKeyPrefix+p.ID, data, 0)
	if p.OwnerID != "" {
		pipe.SAdd(ctx, userProjectSetPrefix+p.OwnerID, p.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// Get retrieves a record by project id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := r.client.Get(ctx, projectKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return &p, nil
}

// ListByUser returns all records owned by uid, newest first. Ids indexed
// but no longer present in the store are skipped.
func (r *ProjectRepository) ListByUser(ctx context.Context, uid string) ([]domain.Project, error) {
	ids, err := r.client.SMembers(ctx, userProjectSetPrefix+uid).Result()
	if err != nil {
		return nil, fmt.Errorf("list project ids: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err == domain.ErrProjectNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}
