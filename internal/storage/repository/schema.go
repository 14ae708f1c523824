package repository

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the clients and investments tables when missing.
// It runs on every storage start and is safe to invoke repeatedly.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			telefone BIGINT NOT NULL,
			email VARCHAR(255) NOT NULL,
			data_nascimento DATE,
			correntista BOOLEAN NOT NULL DEFAULT FALSE,
			score_credito DOUBLE PRECISION,
			saldo_cc DOUBLE PRECISION,
			patrimonio_investimento DOUBLE PRECISION NOT NULL DEFAULT 0,
			perfil_investidor VARCHAR(20) NOT NULL DEFAULT 'CONSERVADOR',
			senha_hash VARCHAR(255) NOT NULL DEFAULT '',
			CONSTRAINT clients_email_key UNIQUE (email),
			CONSTRAINT clients_telefone_key UNIQUE (telefone)
		)`,
		`CREATE TABLE IF NOT EXISTS investments (
			id BIGSERIAL PRIMARY KEY,
			cliente_id BIGINT NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
			tipo_investimento VARCHAR(20) NOT NULL,
			ticker VARCHAR(20),
			valor_investido DOUBLE PRECISION NOT NULL CHECK (valor_investido > 0),
			rentabilidade DOUBLE PRECISION NOT NULL DEFAULT 0,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			data_aplicacao TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS investments_cliente_id_idx ON investments (cliente_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
