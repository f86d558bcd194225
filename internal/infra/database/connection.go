package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	// escritas de etapa e recargas do live query são curtas
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// NewDBConnection abre o pool do Postgres via pq.Connector e valida com Ping.
// O pq.Listener do live query abre a própria conexão com a mesma DSN, fora
// deste pool, então uma DSN inválida falha aqui antes do Subscribe.
func NewDBConnection(ctx context.Context, connString string) (*sql.DB, error) {
	connector, err := pq.NewConnector(connString)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_URL inválida: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
