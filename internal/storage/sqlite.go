package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/martinsuchenak/devstackctl/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStorage implements Storage with SQLite backend
type SQLiteStorage struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite-based storage
func NewSQLiteStorage(dataDir string) (*SQLiteStorage, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "deployments.db")

	// Open database with SQLite settings
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ss := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	// Initialize schema
	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return ss, nil
}

// initSchema creates the database schema
func (ss *SQLiteStorage) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	_, err = ss.db.Exec(string(schema))
	return err
}

// Close closes the database connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

// ListDeployments returns all recorded deployments, newest first
func (ss *SQLiteStorage) ListDeployments() ([]model.Deployment, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	rows, err := ss.db.Query(`
		SELECT id, stack_name, stack_id, commit_sha, change_id, created_at
		FROM deployments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying deployments: %w", err)
	}
	defer rows.Close()

	var deps []model.Deployment
	for rows.Next() {
		var dep model.Deployment
		if err := rows.Scan(&dep.ID, &dep.StackName, &dep.StackID, &dep.Commit, &dep.Change, &dep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning deployment: %w", err)
		}
		deps = append(deps, dep)
	}

	return deps, rows.Err()
}

// GetDeployment retrieves a deployment by stack name
func (ss *SQLiteStorage) GetDeployment(stackName string) (*model.Deployment, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var dep model.Deployment
	err := ss.db.QueryRow(`
		SELECT id, stack_name, stack_id, commit_sha, change_id, created_at
		FROM deployments
		WHERE stack_name = ?
		LIMIT 1
	`, stackName).Scan(&dep.ID, &dep.StackName, &dep.StackID, &dep.Commit, &dep.Change, &dep.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("querying deployment: %w", err)
	}

	return &dep, nil
}

// CreateDeployment records a newly created stack
func (ss *SQLiteStorage) CreateDeployment(dep *model.Deployment) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if dep.StackName == "" {
		return ErrInvalidName
	}
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = time.Now()
	}

	_, err := ss.db.Exec(`
		INSERT INTO deployments (id, stack_name, stack_id, commit_sha, change_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(stack_name) DO UPDATE SET
			stack_id = excluded.stack_id,
			commit_sha = excluded.commit_sha,
			change_id = excluded.change_id,
			created_at = excluded.created_at
	`, dep.ID, dep.StackName, dep.StackID, dep.Commit, dep.Change, dep.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting deployment: %w", err)
	}

	return nil
}

// DeleteDeployment removes the record for a torn-down stack
func (ss *SQLiteStorage) DeleteDeployment(stackName string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	result, err := ss.db.Exec("DELETE FROM deployments WHERE stack_name = ?", stackName)
	if err != nil {
		return fmt.Errorf("deleting deployment: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrDeploymentNotFound
	}

	return nil
}
