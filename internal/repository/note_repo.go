package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"gorm.io/gorm"
)

// NoteRepository note data access. Every method is scoped by the owning user id.
type NoteRepository interface {
	List(ctx context.Context, userID uint64, opts NoteListOptions) ([]*domain.Note, error)
	FindByID(ctx context.Context, userID, noteID uint64) (*domain.Note, error)
	Create(ctx context.Context, note *domain.Note) error
	Update(ctx context.Context, userID, noteID uint64, columns map[string]interface{}) error
	Delete(ctx context.Context, userID, noteID uint64) (bool, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) owned(ctx context.Context, userID uint64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Note{}).Where("user_id = ?", userID)
}

func (r *noteRepository) List(ctx context.Context, userID uint64, opts NoteListOptions) ([]*domain.Note, error) {
	notes := make([]*domain.Note, 0)
	if err := opts.Normalize().Apply(r.owned(ctx, userID)).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) FindByID(ctx context.Context, userID, noteID uint64) (*domain.Note, error) {
	var note domain.Note
	err := r.owned(ctx, userID).Where("id = ?", noteID).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %d: %w", noteID, err)
	}
	return &note, nil
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	if note.Tags == nil {
		note.Tags = domain.Tags{}
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *noteRepository) Update(ctx context.Context, userID, noteID uint64, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	if err := r.owned(ctx, userID).Where("id = ?", noteID).Updates(columns).Error; err != nil {
		return fmt.Errorf("update note %d: %w", noteID, err)
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, userID, noteID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&domain.Note{})
	if result.Error != nil {
		return false, fmt.Errorf("delete note %d: %w", noteID, result.Error)
	}
	return result.RowsAffected > 0, nil
}
