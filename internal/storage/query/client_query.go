package query

import (
	"context"
	"errors"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
	"github.com/LucasLorenaa/projeto-javer-services/shared/utils"
)

type clientReadStore interface {
	GetView(ctx context.Context, id int64) (*models.ClientView, error)
	ListViews(ctx context.Context) ([]models.ClientView, error)
}

type clientCredentialStore interface {
	GetByEmail(email string) (*models.Client, error)
}

// ClientQueryService serves the read side for clients, including login.
type ClientQueryService struct {
	reads       clientReadStore
	credentials clientCredentialStore
}

func NewClientQueryService(reads clientReadStore, credentials clientCredentialStore) *ClientQueryService {
	return &ClientQueryService{reads: reads, credentials: credentials}
}

// GetClient returns a single client view.
func (s *ClientQueryService) GetClient(ctx context.Context, q cqrs.GetClientQuery) (*models.ClientView, error) {
	return s.reads.GetView(ctx, q.ClientID)
}

// ListClients returns every client view.
func (s *ClientQueryService) ListClients(ctx context.Context, q cqrs.ListClientsQuery) ([]models.ClientView, error) {
	return s.reads.ListViews(ctx)
}

// Authenticate checks the credentials and issues a JWT. Unknown email and
// wrong password both come back as apperr.ErrInvalidCredentials so a caller
// cannot discover which emails are registered.
func (s *ClientQueryService) Authenticate(ctx context.Context, q cqrs.LoginQuery) (*models.ClientView, string, error) {
	client, err := s.credentials.GetByEmail(q.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !utils.CheckPassword(q.Senha, client.PasswordHash) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(client.ID, client.Email)
	if err != nil {
		return nil, "", err
	}
	return client.View(), token, nil
}
