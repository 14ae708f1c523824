package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

var clientRows = []string{
	"id", "nome", "telefone", "email", "data_nascimento", "correntista",
	"score_credito", "saldo_cc", "patrimonio_investimento", "perfil_investidor", "senha_hash",
}

func aStoredClientRow() *sqlmock.Rows {
	return sqlmock.NewRows(clientRows).
		AddRow(1, "Maria Silva", 11999990000, "maria@example.com", nil, true,
			nil, 1500.0, 10000.0, "MODERADO", "$2a$10$hash")
}

func TestClientRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs("Maria Silva", int64(11999990000), "maria@example.com", nil,
			true, nil, 1500.0, 10000.0, "MODERADO", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	saldo := 1500.0
	client := &models.Client{
		Nome: "Maria Silva", Telefone: 11999990000, Email: "maria@example.com",
		Correntista: true, SaldoCC: &saldo,
		PatrimonioInvestimento: 10000.0, PerfilInvestidor: "MODERADO",
		PasswordHash: "$2a$10$hash",
	}

	repo := NewClientRepository(db)
	if err := repo.Create(client); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if client.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", client.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClientRepositoryCreateConflict(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantField  string
	}{
		{"duplicate email", "clients_email_key", "email"},
		{"duplicate telefone", "clients_telefone_key", "telefone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO clients`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			repo := NewClientRepository(db)
			err = repo.Create(&models.Client{Nome: "Maria", Email: "maria@example.com"})

			var conflict *apperr.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("expected ConflictError, got %v", err)
			}
			if conflict.Field != tt.wantField {
				t.Errorf("expected conflict field %q, got %q", tt.wantField, conflict.Field)
			}
		})
	}
}

func TestClientRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM clients WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(aStoredClientRow())

	repo := NewClientRepository(db)
	client, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if client.Nome != "Maria Silva" {
		t.Errorf("expected nome Maria Silva, got %q", client.Nome)
	}
	if client.ScoreCredito != nil {
		t.Errorf("expected nil score_credito, got %v", *client.ScoreCredito)
	}
	if client.SaldoCC == nil || *client.SaldoCC != 1500.0 {
		t.Errorf("unexpected saldo_cc: %v", client.SaldoCC)
	}
	if client.DataNascimento != nil {
		t.Errorf("expected nil data_nascimento, got %v", client.DataNascimento)
	}
}

func TestClientRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM clients WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(clientRows))

	repo := NewClientRepository(db)
	if _, err := repo.GetByID(42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientRepositoryUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE clients`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewClientRepository(db)
	err = repo.Update(&models.Client{ID: 42, Nome: "Ghost"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientRepositoryUpdatePasswordByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE clients SET senha_hash = \$2 WHERE email = \$1`).
		WithArgs("maria@example.com", "$2a$10$newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewClientRepository(db)
	if err := repo.UpdatePasswordByEmail("maria@example.com", "$2a$10$newhash"); err != nil {
		t.Fatalf("UpdatePasswordByEmail: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClientRepositoryDelete(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{"success", 1, nil},
		{"not found", 0, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()

			mock.ExpectExec(`DELETE FROM clients WHERE id = \$1`).
				WithArgs(int64(1)).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			repo := NewClientRepository(db)
			err = repo.Delete(1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
