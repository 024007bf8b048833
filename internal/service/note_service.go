package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/repository"
)

// NoteService enforces note ownership and partial-update semantics.
// It holds no state between calls; concurrent updates to one note are last-write-wins per field.
type NoteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

func validateTitle(title string, missing error) error {
	if strings.TrimSpace(title) == "" {
		return missing
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLength {
		return common.ErrTitleTooLong
	}
	return nil
}

// CreateNote inserts a note owned by userID and returns it as read back from the store
func (s *NoteService) CreateNote(ctx context.Context, userID uint64, in domain.NoteCreateInput) (*domain.Note, error) {
	if err := validateTitle(in.Title, common.ErrTitleRequired); err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID:     userID,
		Title:      in.Title,
		Content:    in.Content,
		Tags:       domain.NewTags(in.Tags),
		IsArchived: in.IsArchived,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	// Re-read through the same path as GetNote so create and read responses match
	return s.noteRepo.FindByID(ctx, userID, note.ID)
}

// GetNote returns the note only when userID owns it
func (s *NoteService) GetNote(ctx context.Context, userID, noteID uint64) (*domain.Note, error) {
	return s.noteRepo.FindByID(ctx, userID, noteID)
}

// ListNotes lists userID's notes; the result is never nil
func (s *NoteService) ListNotes(ctx context.Context, userID uint64, opts repository.NoteListOptions) ([]*domain.Note, error) {
	notes, err := s.noteRepo.List(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}

// UpdateNote changes only the supplied fields. With nothing supplied the current note is
// returned and no UPDATE is issued, so updatedAt stays put.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID uint64, in domain.NoteUpdateInput) (*domain.Note, error) {
	if in.Title != nil {
		if err := validateTitle(*in.Title, common.ErrTitleEmpty); err != nil {
			return nil, err
		}
	}

	existing, err := s.noteRepo.FindByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		return existing, nil
	}

	if err := s.noteRepo.Update(ctx, userID, noteID, in.Columns()); err != nil {
		return nil, err
	}
	return s.noteRepo.FindByID(ctx, userID, noteID)
}

// DeleteNote hard-deletes the note; false means nothing owned by userID matched
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID uint64) (bool, error) {
	return s.noteRepo.Delete(ctx, userID, noteID)
}
