// Package storage provides the content store for essay sections.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/seidoku/internal/models"
)

// ErrNotFound is returned when no section exists for a slug.
var ErrNotFound = errors.New("section not found")

// Storage is the read/seed interface over the sections table. Reads are the
// only operations the server uses; ReplaceSections exists for the seed command.
type Storage interface {
	// GetSections returns all sections ordered by reading sequence.
	GetSections(ctx context.Context) ([]*models.Section, error)

	// GetSectionBySlug returns the section with the given slug, or ErrNotFound.
	GetSectionBySlug(ctx context.Context, slug string) (*models.Section, error)

	// CountSections returns the number of stored sections.
	CountSections(ctx context.Context) (int, error)

	// ReplaceSections atomically replaces all sections with the given set.
	ReplaceSections(ctx context.Context, sections []*models.Section) error

	// Close releases the underlying database handle.
	Close() error
}
