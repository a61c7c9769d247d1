package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/repository"
)

const (
	getUserQuery = `
		SELECT id, username, role, COALESCE(full_name, ''), is_active, created_at
		FROM users
		WHERE id = $1`

	listManagedStoresQuery = `
		SELECT store_user_id
		FROM managed_stores
		WHERE manager_user_id = $1
		ORDER BY created_at ASC, id ASC`
)

// Store reads dashboard users and brand-manager links from PostgreSQL
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

var _ repository.ScopeStore = (*Store)(nil)

// NewStore opens a connection pool and verifies it
func NewStore(ctx context.Context, cfg *config.PostgresConfig, log *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Info("PostgreSQL connection established",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database))

	return &Store{pool: pool, log: log}, nil
}

// GetUser loads one user by id
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	var role string
	err := s.pool.QueryRow(ctx, getUserQuery, id).
		Scan(&u.ID, &u.Username, &role, &u.FullName, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// ListManagedStores returns the stores linked to a manager, oldest link first
func (s *Store) ListManagedStores(ctx context.Context, managerID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, listManagedStoresQuery, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query managed stores: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to read managed stores: %w", err)
	}
	return ids, nil
}

// Ping checks if the PostgreSQL pool is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool
func (s *Store) Close() {
	s.pool.Close()
	s.log.Info("PostgreSQL connection closed")
}
