package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wyg1997/CommandAPI/internal/domain"
	"github.com/wyg1997/CommandAPI/internal/infrastructure/repository/migrations"
	"github.com/wyg1997/CommandAPI/pkg/logger"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SQLiteCommandRepository implements CommandRepository on SQLite
type SQLiteCommandRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// OpenSQLiteCommandRepository opens the database at path and applies embedded migrations.
func OpenSQLiteCommandRepository(ctx context.Context, path string) (*SQLiteCommandRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryDSN {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := backfillPlatformKeys(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log := logger.GetLogger()
	log.Debug("Opened sqlite command store: path=%s", path)
	return &SQLiteCommandRepository{db: db, logger: log}, nil
}

// Close closes the database handle.
func (r *SQLiteCommandRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ListCommands lists commands ordered by id
func (r *SQLiteCommandRepository) ListCommands(ctx context.Context, filter domain.CommandFilter) ([]*domain.Command, error) {
	query := `SELECT id, how_to, command_line, platform FROM commands`
	var args []any
	if key := domain.PlatformKey(filter.Platform); key != "" {
		query += ` WHERE platform_key = ?`
		args = append(args, key)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Command, 0)
	for rows.Next() {
		cmd := &domain.Command{}
		if err := rows.Scan(&cmd.ID, &cmd.HowTo, &cmd.CommandLine, &cmd.Platform); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		result = append(result, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	return result, nil
}

// GetCommand gets a command by ID
func (r *SQLiteCommandRepository) GetCommand(ctx context.Context, id int64) (*domain.Command, error) {
	cmd := &domain.Command{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, how_to, command_line, platform FROM commands WHERE id = ?`, id,
	).Scan(&cmd.ID, &cmd.HowTo, &cmd.CommandLine, &cmd.Platform)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get command %d: %w", id, domain.ErrCommandNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get command %d: %w", id, err)
	}
	return cmd, nil
}

// CreateCommand stores a new command and assigns its ID
func (r *SQLiteCommandRepository) CreateCommand(ctx context.Context, cmd *domain.Command) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO commands (how_to, command_line, platform, platform_key) VALUES (?, ?, ?, ?)`,
		cmd.HowTo, cmd.CommandLine, cmd.Platform, domain.PlatformKey(cmd.Platform),
	)
	if err != nil {
		return fmt.Errorf("create command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create command: read id: %w", err)
	}
	cmd.ID = id
	return nil
}

// UpdateCommand replaces the text fields of an existing command
func (r *SQLiteCommandRepository) UpdateCommand(ctx context.Context, cmd *domain.Command) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE commands SET how_to = ?, command_line = ?, platform = ?, platform_key = ? WHERE id = ?`,
		cmd.HowTo, cmd.CommandLine, cmd.Platform, domain.PlatformKey(cmd.Platform), cmd.ID,
	)
	if err != nil {
		return fmt.Errorf("update command %d: %w", cmd.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update command %d: %w", cmd.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update command %d: %w", cmd.ID, domain.ErrCommandNotFound)
	}
	return nil
}

// DeleteCommand deletes a command and returns what was removed
func (r *SQLiteCommandRepository) DeleteCommand(ctx context.Context, id int64) (*domain.Command, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("delete command %d: begin: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	cmd := &domain.Command{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, how_to, command_line, platform FROM commands WHERE id = ?`, id,
	).Scan(&cmd.ID, &cmd.HowTo, &cmd.CommandLine, &cmd.Platform)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delete command %d: %w", id, domain.ErrCommandNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete command %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM commands WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete command %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete command %d: commit: %w", id, err)
	}
	return cmd, nil
}

// CountCommands returns the number of stored commands
func (r *SQLiteCommandRepository) CountCommands(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commands`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count commands: %w", err)
	}
	return count, nil
}

// backfillPlatformKeys fills platform_key for rows written before the column
// existed. SQLite's lower() only folds ASCII, so keys are computed in Go.
func backfillPlatformKeys(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT id, platform FROM commands WHERE platform_key = ''`)
	if err != nil {
		return fmt.Errorf("backfill platform keys: %w", err)
	}
	pending := make(map[int64]string)
	for rows.Next() {
		var id int64
		var platform string
		if err := rows.Scan(&id, &platform); err != nil {
			rows.Close()
			return fmt.Errorf("backfill platform keys: %w", err)
		}
		pending[id] = domain.PlatformKey(platform)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("backfill platform keys: %w", err)
	}

	for id, key := range pending {
		if _, err := db.ExecContext(ctx, `UPDATE commands SET platform_key = ? WHERE id = ?`, key, id); err != nil {
			return fmt.Errorf("backfill platform key for command %d: %w", id, err)
		}
	}
	return nil
}
