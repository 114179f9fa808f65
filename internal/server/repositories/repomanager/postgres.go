package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// either the connection pool or a running transaction.
type PostgresRepositoryManager struct {
	// pool is nil when the manager is bound to a transaction.
	pool *sql.DB
	db   dbx.DBTX
}

// NewPostgresRepositoryManager constructs a manager over the pool.
func NewPostgresRepositoryManager(pool *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{pool: pool, db: pool}
}

// Users returns a users.Repository bound to the manager's DBTX.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the manager's DBTX.
func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.pool == nil {
		return fn(ctx, m)
	}
	return dbx.WithTx(ctx, m.pool, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: tx})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	if m.pool == nil {
		return fmt.Errorf("migrations cannot run inside a transaction")
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.pool, ".")
}

// OpenPostgres opens a pgx-backed pool for dsn and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
