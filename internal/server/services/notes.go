package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// NoteService applies ownership and validation rules on top of the notes
// repository. Every method takes the owner explicitly; a note owned by
// someone else is indistinguishable from a missing one.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

func (s *NoteService) List(ctx context.Context, ownerID int64) ([]models.Note, error) {
	list, err := s.repomanager.Notes(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	if list == nil {
		list = []models.Note{}
	}
	return list, nil
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID int64) (*models.Note, error) {
	return s.repomanager.Notes(s.db).GetByOwner(ctx, ownerID, noteID)
}

func (s *NoteService) Create(ctx context.Context, ownerID int64, title, body string) (*models.Note, error) {
	if err := validateNote(title); err != nil {
		return nil, err
	}

	note := &models.Note{UserID: ownerID, Title: title, Body: body}
	return s.repomanager.Notes(s.db).Create(ctx, note)
}

// Update applies the non-nil fields of u to the owner's note. Missing or
// foreign notes fail with common.ErrorNotFound before validation runs.
func (s *NoteService) Update(ctx context.Context, ownerID, noteID int64, u models.NoteUpdate) (*models.Note, error) {
	repo := s.repomanager.Notes(s.db)

	current, err := repo.GetByOwner(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	merged := u.Apply(*current)
	if err := validateNote(merged.Title); err != nil {
		return nil, err
	}

	return repo.Update(ctx, &merged)
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID int64) error {
	return s.repomanager.Notes(s.db).Delete(ctx, ownerID, noteID)
}

func validateNote(title string) error {
	verr := common.NewValidationError()
	if common.IsBlank(title) {
		verr.Add("title", common.MsgBlank)
	}
	return verr.OrNil()
}
