package command

import (
	"context"
	"encoding/json"
	"log"

	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/events"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

type investmentStore interface {
	CreateWithTransfer(inv *models.Investment) (float64, error)
	Update(id int64, patch models.InvestmentPatch) (*models.Investment, error)
	DeleteWithRefund(id int64) (*models.Investment, bool, error)
}

type investmentViewCache interface {
	CacheView(ctx context.Context, inv *models.Investment)
	Invalidate(ctx context.Context, id int64)
	RefreshTotal(ctx context.Context, clienteID int64) (*models.TotalInvestido, error)
}

// InvestmentCommandService owns every state change on investments. Creation
// and deletion move money between the owning client's investable balance and
// the position, so both refresh the client view and the invested-total
// projection synchronously: reads right after a write observe exact numbers,
// the stream consumer only repairs caches lost in between.
type InvestmentCommandService struct {
	investments investmentStore
	views       investmentViewCache
	clientViews clientViewCache
	publisher   eventPublisher
}

func NewInvestmentCommandService(
	investments investmentStore,
	views investmentViewCache,
	clientViews clientViewCache,
	publisher eventPublisher,
) *InvestmentCommandService {
	return &InvestmentCommandService{
		investments: investments,
		views:       views,
		clientViews: clientViews,
		publisher:   publisher,
	}
}

// CreateInvestment opens a position funded from the client's investable
// balance. Fails with apperr.ErrNotFound for an unknown client and
// *apperr.InsufficientFundsError when the balance does not cover the amount.
func (s *InvestmentCommandService) CreateInvestment(ctx context.Context, cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) {
	inv := &models.Investment{
		ClienteID:        cmd.ClienteID,
		TipoInvestimento: cmd.TipoInvestimento,
		Ticker:           cmd.Ticker,
		ValorInvestido:   cmd.ValorInvestido,
		Rentabilidade:    cmd.Rentabilidade,
		Ativo:            true,
	}
	if cmd.Ativo != nil {
		inv.Ativo = *cmd.Ativo
	}

	newBalance, err := s.investments.CreateWithTransfer(inv)
	if err != nil {
		return nil, err
	}

	s.views.CacheView(ctx, inv)
	s.clientViews.Invalidate(ctx, inv.ClienteID)
	if _, err := s.views.RefreshTotal(ctx, inv.ClienteID); err != nil {
		log.Printf("failed to refresh invested total for client %d: %v", inv.ClienteID, err)
	}

	s.publish(ctx, events.InvestmentCreated, events.InvestmentCreatedEvent{
		InvestmentID:     inv.ID,
		ClienteID:        inv.ClienteID,
		TipoInvestimento: string(inv.TipoInvestimento),
		ValorInvestido:   inv.ValorInvestido,
	})
	s.publish(ctx, events.PatrimonyTransferred, events.PatrimonyTransferredEvent{
		ClienteID:  inv.ClienteID,
		Amount:     inv.ValorInvestido,
		NewBalance: newBalance,
		Direction:  "invest",
	})
	return inv, nil
}

// UpdateInvestment applies a partial update. The invested amount can be
// edited here without moving money; only creation and deletion transfer
// patrimony.
func (s *InvestmentCommandService) UpdateInvestment(ctx context.Context, cmd cqrs.UpdateInvestmentCommand) (*models.Investment, error) {
	inv, err := s.investments.Update(cmd.InvestmentID, cmd.Patch)
	if err != nil {
		return nil, err
	}

	s.views.CacheView(ctx, inv)
	if _, err := s.views.RefreshTotal(ctx, inv.ClienteID); err != nil {
		log.Printf("failed to refresh invested total for client %d: %v", inv.ClienteID, err)
	}

	s.publish(ctx, events.InvestmentUpdated, events.InvestmentUpdatedEvent{
		InvestmentID: inv.ID,
		ClienteID:    inv.ClienteID,
	})
	return inv, nil
}

// DeleteInvestment closes the position and refunds its amount to the owning
// client. When the owner no longer exists the deletion proceeds without a
// refund.
func (s *InvestmentCommandService) DeleteInvestment(ctx context.Context, cmd cqrs.DeleteInvestmentCommand) error {
	inv, refunded, err := s.investments.DeleteWithRefund(cmd.InvestmentID)
	if err != nil {
		return err
	}

	s.views.Invalidate(ctx, cmd.InvestmentID)
	s.clientViews.Invalidate(ctx, inv.ClienteID)
	if _, err := s.views.RefreshTotal(ctx, inv.ClienteID); err != nil {
		log.Printf("failed to refresh invested total for client %d: %v", inv.ClienteID, err)
	}

	s.publish(ctx, events.InvestmentDeleted, events.InvestmentDeletedEvent{
		InvestmentID:   inv.ID,
		ClienteID:      inv.ClienteID,
		ValorInvestido: inv.ValorInvestido,
		Refunded:       refunded,
	})
	return nil
}

// HandleInvestmentEvent is the stream-consumer callback wired to the
// investment events stream. It re-derives the invested-total projection for
// the affected client, repairing caches that a concurrent process or a crash
// left stale. Refreshes are idempotent, so re-delivered events are harmless.
func (s *InvestmentCommandService) HandleInvestmentEvent(ctx context.Context, event events.Event) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	var payload struct {
		ClienteID int64 `json:"clienteId"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.ClienteID == 0 {
		return nil
	}

	_, err = s.views.RefreshTotal(ctx, payload.ClienteID)
	return err
}

func (s *InvestmentCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.InvestmentEventsStream, eventType, data); err != nil {
		log.Printf("failed to publish %s: %v", eventType, err)
	}
}
