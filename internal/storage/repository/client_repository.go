package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

const clientColumns = `id, nome, telefone, email, data_nascimento, correntista,
		   score_credito, saldo_cc, patrimonio_investimento, perfil_investidor, senha_hash`

// ClientRepository handles all state-mutating operations for clients.
// It operates exclusively against the PostgreSQL write store (source of truth).
type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts the client and fills in the store-assigned id. Email and
// phone uniqueness violations surface as *apperr.ConflictError.
func (r *ClientRepository) Create(client *models.Client) error {
	query := `
		INSERT INTO clients (nome, telefone, email, data_nascimento, correntista,
			score_credito, saldo_cc, patrimonio_investimento, perfil_investidor, senha_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(query,
		client.Nome, client.Telefone, client.Email, client.DataNascimento,
		client.Correntista, client.ScoreCredito, client.SaldoCC,
		client.PatrimonioInvestimento, client.PerfilInvestidor, client.PasswordHash,
	).Scan(&client.ID)
	if err != nil {
		if conflict := conflictField(err); conflict != "" {
			return &apperr.ConflictError{Field: conflict}
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal
// operations.
func (r *ClientRepository) GetByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanClient(r.db.QueryRow(query, id))
}

// GetByEmail fetches the full write model for authentication and password
// reset.
func (r *ClientRepository) GetByEmail(email string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return r.scanClient(r.db.QueryRow(query, email))
}

// List returns every client. Full table scan; the table is CRUD-scale.
func (r *ClientRepository) List() ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

// Update writes the full merged row. The service layer performs the
// patch merge, so every column is set here.
func (r *ClientRepository) Update(client *models.Client) error {
	query := `
		UPDATE clients
		SET nome = $2, telefone = $3, email = $4, data_nascimento = $5,
			correntista = $6, score_credito = $7, saldo_cc = $8,
			patrimonio_investimento = $9, perfil_investidor = $10, senha_hash = $11
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		client.ID, client.Nome, client.Telefone, client.Email, client.DataNascimento,
		client.Correntista, client.ScoreCredito, client.SaldoCC,
		client.PatrimonioInvestimento, client.PerfilInvestidor, client.PasswordHash,
	)
	if err != nil {
		if conflict := conflictField(err); conflict != "" {
			return &apperr.ConflictError{Field: conflict}
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpdatePasswordByEmail replaces the stored hash. Returns apperr.ErrNotFound
// when the email is unknown.
func (r *ClientRepository) UpdatePasswordByEmail(email, hash string) error {
	result, err := r.db.Exec(`UPDATE clients SET senha_hash = $2 WHERE email = $1`, email, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the client row; the FK cascade removes its investments.
func (r *ClientRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ClientRepository) scanClient(row rowScanner) (*models.Client, error) {
	client, err := scanClientRow(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func scanClientRow(row rowScanner) (*models.Client, error) {
	var client models.Client
	var nascimento models.Date
	var score, saldo sql.NullFloat64

	err := row.Scan(
		&client.ID, &client.Nome, &client.Telefone, &client.Email, &nascimento,
		&client.Correntista, &score, &saldo,
		&client.PatrimonioInvestimento, &client.PerfilInvestidor, &client.PasswordHash,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	if !nascimento.IsZero() {
		client.DataNascimento = &nascimento
	}
	if score.Valid {
		client.ScoreCredito = &score.Float64
	}
	if saldo.Valid {
		client.SaldoCC = &saldo.Float64
	}
	return &client, nil
}

// conflictField maps a unique-violation error to the colliding field name,
// or "" when the error is not a uniqueness conflict.
func conflictField(err error) string {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return ""
	}
	if strings.Contains(pqErr.Constraint, "telefone") {
		return "telefone"
	}
	return "email"
}
