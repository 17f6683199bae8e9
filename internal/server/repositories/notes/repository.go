package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores notes. Every lookup is scoped by owner so a note can
// never be read or changed through another user's id.
type Repository interface {
	ListByOwner(ctx context.Context, userID int64) ([]models.Note, error)
	GetByOwner(ctx context.Context, userID, id int64) (*models.Note, error)
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, userID, id int64) error
	DeleteByOwner(ctx context.Context, userID int64) error
}
