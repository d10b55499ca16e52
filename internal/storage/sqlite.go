// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/seidoku/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		ord INTEGER NOT NULL,
		published BOOLEAN NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_sections_ord ON sections(ord);
	`
	_, err := db.Exec(schema)
	return err
}

// GetSections returns all sections ordered by reading sequence.
func (s *SQLiteStorage) GetSections(ctx context.Context) ([]*models.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, content, ord, published FROM sections ORDER BY ord ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var sec models.Section
		if err := rows.Scan(&sec.ID, &sec.Slug, &sec.Title, &sec.Content, &sec.Order, &sec.Published); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, &sec)
	}
	return sections, rows.Err()
}

// GetSectionBySlug returns the section with the given slug, or ErrNotFound.
func (s *SQLiteStorage) GetSectionBySlug(ctx context.Context, slug string) (*models.Section, error) {
	var sec models.Section
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, content, ord, published FROM sections WHERE slug = ?`, slug,
	).Scan(&sec.ID, &sec.Slug, &sec.Title, &sec.Content, &sec.Order, &sec.Published)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

// CountSections returns the number of stored sections.
func (s *SQLiteStorage) CountSections(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&count)
	return count, err
}

// ReplaceSections clears the table and inserts the given sections in one
// transaction, so readers never observe a half-seeded essay.
func (s *SQLiteStorage) ReplaceSections(ctx context.Context, sections []*models.Section) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("failed to clear sections: %w", err)
	}
	for _, sec := range sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sections (slug, title, content, ord, published) VALUES (?, ?, ?, ?, ?)`,
			sec.Slug, sec.Title, sec.Content, sec.Order, sec.Published)
		if err != nil {
			return fmt.Errorf("failed to insert section %q: %w", sec.Slug, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
