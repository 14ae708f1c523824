package command

import (
	"context"
	"log"

	"github.com/LucasLorenaa/projeto-javer-services/internal/storage/password"
	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/events"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
	"github.com/LucasLorenaa/projeto-javer-services/shared/utils"
)

type clientStore interface {
	Create(client *models.Client) error
	GetByID(id int64) (*models.Client, error)
	Update(client *models.Client) error
	UpdatePasswordByEmail(email, hash string) error
	Delete(id int64) error
}

type clientViewCache interface {
	CacheView(ctx context.Context, view *models.ClientView)
	Invalidate(ctx context.Context, id int64)
}

type investmentPurger interface {
	PurgeClient(ctx context.Context, clienteID int64) error
}

type breachChecker interface {
	IsBreached(senha string) bool
}

type eventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// ClientCommandService owns every state change on clients: registration,
// partial updates, deletion and password resets. Every accepted password goes
// through the strength rules and the breach check before it is hashed.
type ClientCommandService struct {
	clients     clientStore
	views       clientViewCache
	investments investmentPurger
	breach      breachChecker
	publisher   eventPublisher
}

func NewClientCommandService(
	clients clientStore,
	views clientViewCache,
	investments investmentPurger,
	breach breachChecker,
	publisher eventPublisher,
) *ClientCommandService {
	return &ClientCommandService{
		clients:     clients,
		views:       views,
		investments: investments,
		breach:      breach,
		publisher:   publisher,
	}
}

// CreateClient registers a new client. The password is checked for strength
// and against known breaches before being bcrypt-hashed; the plaintext is
// never stored.
func (s *ClientCommandService) CreateClient(ctx context.Context, cmd cqrs.CreateClientCommand) (*models.ClientView, error) {
	hash, err := s.acceptPassword(cmd.Senha)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Nome:             cmd.Nome,
		Telefone:         cmd.Telefone,
		Email:            cmd.Email,
		DataNascimento:   cmd.DataNascimento,
		Correntista:      cmd.Correntista,
		ScoreCredito:     cmd.ScoreCredito,
		SaldoCC:          cmd.SaldoCC,
		PerfilInvestidor: cmd.PerfilInvestidor,
		PasswordHash:     hash,
	}
	if cmd.PatrimonioInvestimento != nil {
		client.PatrimonioInvestimento = *cmd.PatrimonioInvestimento
	}
	if client.PerfilInvestidor == "" {
		client.PerfilInvestidor = models.PerfilConservador
	}

	if err := s.clients.Create(client); err != nil {
		return nil, err
	}

	view := client.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.ClientEventsStream, events.ClientCreated, events.ClientCreatedEvent{
		ClientID: client.ID,
		Email:    client.Email,
		Nome:     client.Nome,
	})
	return view, nil
}

// UpdateClient merges the patch into the stored record and persists the
// result. An absolute patrimonio_investimento in the patch wins over a delta
// supplied alongside it; a new password goes through the same acceptance
// checks as registration.
func (s *ClientCommandService) UpdateClient(ctx context.Context, cmd cqrs.UpdateClientCommand) (*models.ClientView, error) {
	client, err := s.clients.GetByID(cmd.ClientID)
	if err != nil {
		return nil, err
	}

	patch := cmd.Patch
	if patch.Nome != nil {
		client.Nome = *patch.Nome
	}
	if patch.Telefone != nil {
		client.Telefone = *patch.Telefone
	}
	if patch.Email != nil {
		client.Email = *patch.Email
	}
	if patch.DataNascimento != nil {
		client.DataNascimento = patch.DataNascimento
	}
	if patch.Correntista != nil {
		client.Correntista = *patch.Correntista
	}
	if patch.ScoreCredito != nil {
		client.ScoreCredito = patch.ScoreCredito
	}
	if patch.SaldoCC != nil {
		client.SaldoCC = patch.SaldoCC
	}
	if patch.PerfilInvestidor != nil {
		client.PerfilInvestidor = *patch.PerfilInvestidor
	}

	switch {
	case patch.PatrimonioInvestimento != nil:
		client.PatrimonioInvestimento = *patch.PatrimonioInvestimento
	case patch.PatrimonioInvestimentoDelta != nil:
		client.PatrimonioInvestimento += *patch.PatrimonioInvestimentoDelta
	}

	if patch.Senha != nil {
		hash, err := s.acceptPassword(*patch.Senha)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}

	if err := s.clients.Update(client); err != nil {
		return nil, err
	}

	view := client.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.ClientEventsStream, events.ClientUpdated, events.ClientUpdatedEvent{
		ClientID: client.ID,
		Email:    client.Email,
		Nome:     client.Nome,
	})
	return view, nil
}

// DeleteClient removes the client; its investments go with it via the
// foreign-key cascade. Their cached views never expire on their own, so they
// are purged here, before the cascade makes the rows unlistable.
func (s *ClientCommandService) DeleteClient(ctx context.Context, cmd cqrs.DeleteClientCommand) error {
	if err := s.investments.PurgeClient(ctx, cmd.ClientID); err != nil {
		return err
	}
	if err := s.clients.Delete(cmd.ClientID); err != nil {
		return err
	}

	s.views.Invalidate(ctx, cmd.ClientID)
	s.publish(ctx, events.ClientEventsStream, events.ClientDeleted, events.ClientDeletedEvent{
		ClientID: cmd.ClientID,
	})
	return nil
}

// ResetPassword replaces the password of the client registered under the
// given email. The new password goes through the same acceptance checks as
// registration.
func (s *ClientCommandService) ResetPassword(ctx context.Context, cmd cqrs.ResetPasswordCommand) error {
	hash, err := s.acceptPassword(cmd.SenhaNova)
	if err != nil {
		return err
	}
	return s.clients.UpdatePasswordByEmail(cmd.Email, hash)
}

func (s *ClientCommandService) acceptPassword(senha string) (string, error) {
	if err := password.ValidateStrength(senha); err != nil {
		return "", err
	}
	if s.breach.IsBreached(senha) {
		return "", apperr.ErrPasswordBreached
	}
	return utils.HashPassword(senha)
}

func (s *ClientCommandService) publish(ctx context.Context, stream, eventType string, data any) {
	if err := s.publisher.Publish(ctx, stream, eventType, data); err != nil {
		log.Printf("failed to publish %s: %v", eventType, err)
	}
}
