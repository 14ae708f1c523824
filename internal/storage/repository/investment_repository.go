package repository

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

const investmentColumns = `id, cliente_id, tipo_investimento, ticker, valor_investido,
		   rentabilidade, ativo, data_aplicacao`

// InvestmentRepository handles all state-mutating operations for investments,
// including the patrimony transfer that keeps the owning client's investable
// balance consistent with the investment rows.
type InvestmentRepository struct {
	db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// CreateWithTransfer inserts the investment and deducts its amount from the
// owning client's investable balance in a single transaction. The client row
// is locked first, so two concurrent creations against the same balance
// serialise instead of double-spending it.
//
// Returns apperr.ErrNotFound when the client does not exist and
// *apperr.InsufficientFundsError when the amount exceeds the balance; in both
// cases nothing is written.
func (r *InvestmentRepository) CreateWithTransfer(inv *models.Investment) (newBalance float64, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var saldo float64
	err = tx.QueryRow(
		`SELECT COALESCE(patrimonio_investimento, 0) FROM clients WHERE id = $1 FOR UPDATE`,
		inv.ClienteID,
	).Scan(&saldo)
	if err == sql.ErrNoRows {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock client balance: %w", err)
	}

	if inv.ValorInvestido > saldo {
		return 0, &apperr.InsufficientFundsError{Available: saldo, Requested: inv.ValorInvestido}
	}

	err = tx.QueryRow(
		`INSERT INTO investments (cliente_id, tipo_investimento, ticker, valor_investido, rentabilidade, ativo)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, data_aplicacao`,
		inv.ClienteID, inv.TipoInvestimento, inv.Ticker,
		inv.ValorInvestido, inv.Rentabilidade, inv.Ativo,
	).Scan(&inv.ID, &inv.DataAplicacao)
	if err != nil {
		return 0, fmt.Errorf("failed to create investment: %w", err)
	}

	newBalance = saldo - inv.ValorInvestido
	_, err = tx.Exec(
		`UPDATE clients SET patrimonio_investimento = $2 WHERE id = $1`,
		inv.ClienteID, newBalance,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to debit client balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return newBalance, nil
}

// DeleteWithRefund removes the investment and returns its invested amount to
// the owning client's investable balance, atomically. When the owning client
// row no longer exists the deletion still proceeds and the refund is skipped;
// the skip is logged because money silently evaporates in that case.
func (r *InvestmentRepository) DeleteWithRefund(id int64) (inv *models.Investment, refunded bool, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	inv, err = scanInvestmentRow(tx.QueryRow(
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1 FOR UPDATE`, id,
	))
	if err == sql.ErrNoRows {
		return nil, false, apperr.ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}

	var saldo float64
	err = tx.QueryRow(
		`SELECT COALESCE(patrimonio_investimento, 0) FROM clients WHERE id = $1 FOR UPDATE`,
		inv.ClienteID,
	).Scan(&saldo)
	switch {
	case err == sql.ErrNoRows:
		// Owner already gone: delete the orphan row without a refund.
		log.Printf("investment %d: owning client %d missing, refund of %.2f skipped",
			inv.ID, inv.ClienteID, inv.ValorInvestido)
		err = nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to lock client balance: %w", err)
	default:
		_, err = tx.Exec(
			`UPDATE clients SET patrimonio_investimento = $2 WHERE id = $1`,
			inv.ClienteID, saldo+inv.ValorInvestido,
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to credit client balance: %w", err)
		}
		refunded = true
	}

	if _, err = tx.Exec(`DELETE FROM investments WHERE id = $1`, id); err != nil {
		return nil, false, fmt.Errorf("failed to delete investment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit deletion: %w", err)
	}
	return inv, refunded, nil
}

// GetByID fetches a single investment.
func (r *InvestmentRepository) GetByID(id int64) (*models.Investment, error) {
	inv, err := scanInvestmentRow(r.db.QueryRow(
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	return inv, err
}

// ListAll returns every investment, most recent application first.
func (r *InvestmentRepository) ListAll() ([]models.Investment, error) {
	return r.list(`SELECT ` + investmentColumns + ` FROM investments ORDER BY data_aplicacao DESC`)
}

// ListByCliente returns a client's investments, most recent application first.
func (r *InvestmentRepository) ListByCliente(clienteID int64) ([]models.Investment, error) {
	return r.list(
		`SELECT `+investmentColumns+` FROM investments WHERE cliente_id = $1 ORDER BY data_aplicacao DESC`,
		clienteID,
	)
}

func (r *InvestmentRepository) list(query string, args ...any) ([]models.Investment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		inv, err := scanInvestmentRow(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, *inv)
	}
	return investments, rows.Err()
}

// Update applies the patch with a dynamically built SET clause containing
// only the supplied fields. An empty patch returns the current record
// unchanged.
func (r *InvestmentRepository) Update(id int64, patch models.InvestmentPatch) (*models.Investment, error) {
	var sets []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.TipoInvestimento != nil {
		sets = append(sets, "tipo_investimento = "+arg(*patch.TipoInvestimento))
	}
	if patch.Ticker != nil {
		sets = append(sets, "ticker = "+arg(*patch.Ticker))
	}
	if patch.ValorInvestido != nil {
		sets = append(sets, "valor_investido = "+arg(*patch.ValorInvestido))
	}
	if patch.Rentabilidade != nil {
		sets = append(sets, "rentabilidade = "+arg(*patch.Rentabilidade))
	}
	if patch.Ativo != nil {
		sets = append(sets, "ativo = "+arg(*patch.Ativo))
	}

	if len(sets) == 0 {
		return r.GetByID(id)
	}

	query := fmt.Sprintf("UPDATE investments SET %s WHERE id = %s",
		strings.Join(sets, ", "), arg(id))
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.GetByID(id)
}

// TotalInvested sums the active invested amounts for a client; 0 when none.
func (r *InvestmentRepository) TotalInvested(clienteID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(valor_investido), 0) FROM investments WHERE cliente_id = $1 AND ativo = TRUE`,
		clienteID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum investments: %w", err)
	}
	return total, nil
}

func scanInvestmentRow(row rowScanner) (*models.Investment, error) {
	var inv models.Investment
	var ticker sql.NullString

	err := row.Scan(
		&inv.ID, &inv.ClienteID, &inv.TipoInvestimento, &ticker,
		&inv.ValorInvestido, &inv.Rentabilidade, &inv.Ativo, &inv.DataAplicacao,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan investment: %w", err)
	}
	if ticker.Valid {
		inv.Ticker = &ticker.String
	}
	return &inv, nil
}
