package repository

import (
	"context"
	"fmt"

	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
	"github.com/LucasLorenaa/projeto-javer-services/shared/redis"
)

// ClientReadRepository serves client views Redis-first, falling back to
// Postgres and warming the cache on a miss.
type ClientReadRepository struct {
	clients *ClientRepository
	cache   *redis.ViewCache[models.ClientView]
}

func NewClientReadRepository(clients *ClientRepository, cache *redis.ViewCache[models.ClientView]) *ClientReadRepository {
	return &ClientReadRepository{clients: clients, cache: cache}
}

func clientViewKey(id int64) string {
	return fmt.Sprintf("client:view:%d", id)
}

// GetView returns the client's read projection.
func (r *ClientReadRepository) GetView(ctx context.Context, id int64) (*models.ClientView, error) {
	if view, ok := r.cache.Get(ctx, clientViewKey(id)); ok {
		return view, nil
	}

	client, err := r.clients.GetByID(id)
	if err != nil {
		return nil, err
	}

	view := client.View()
	r.cache.Set(ctx, clientViewKey(id), view)
	return view, nil
}

// ListViews projects every client. The listing always hits Postgres; only
// per-client lookups are cached.
func (r *ClientReadRepository) ListViews(ctx context.Context) ([]models.ClientView, error) {
	clients, err := r.clients.List()
	if err != nil {
		return nil, err
	}

	views := make([]models.ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, *clients[i].View())
	}
	return views, nil
}

// CacheView stores a freshly computed view, called by the command side after
// a successful write.
func (r *ClientReadRepository) CacheView(ctx context.Context, view *models.ClientView) {
	r.cache.Set(ctx, clientViewKey(view.ID), view)
}

// Invalidate drops the cached view for a client.
func (r *ClientReadRepository) Invalidate(ctx context.Context, id int64) {
	r.cache.Delete(ctx, clientViewKey(id))
}
