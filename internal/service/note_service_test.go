package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock NoteRepository ---

type mockNoteRepo struct {
	mock.Mock
}

func (m *mockNoteRepo) List(ctx context.Context, userID uint64, opts repository.NoteListOptions) ([]*domain.Note, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *mockNoteRepo) FindByID(ctx context.Context, userID, noteID uint64) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteRepo) Update(ctx context.Context, userID, noteID uint64, columns map[string]interface{}) error {
	return m.Called(ctx, userID, noteID, columns).Error(0)
}

func (m *mockNoteRepo) Delete(ctx context.Context, userID, noteID uint64) (bool, error) {
	args := m.Called(ctx, userID, noteID)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// --- Tests ---

func TestCreateNote_AppliesDefaultsAndRereads(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()
	now := time.Now()

	repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Note) bool {
		return n.UserID == 7 && n.Title == "Shopping" && n.Content == "" &&
			n.Tags != nil && len(n.Tags) == 0 && !n.IsArchived
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Note).ID = 11
	}).Return(nil)

	stored := &domain.Note{ID: 11, UserID: 7, Title: "Shopping", Tags: domain.Tags{}, CreatedAt: now, UpdatedAt: now}
	repo.On("FindByID", ctx, uint64(7), uint64(11)).Return(stored, nil)

	note, err := svc.CreateNote(ctx, 7, domain.NoteCreateInput{Title: "Shopping"})

	assert.NoError(t, err)
	assert.Same(t, stored, note)
	repo.AssertExpectations(t)
}

func TestCreateNote_TitleRequired(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)

	for _, title := range []string{"", "   "} {
		_, err := svc.CreateNote(context.Background(), 1, domain.NoteCreateInput{Title: title})
		assert.ErrorIs(t, err, common.ErrTitleRequired)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateNote_TitleTooLong(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)

	_, err := svc.CreateNote(context.Background(), 1, domain.NoteCreateInput{Title: strings.Repeat("가", 256)})
	assert.ErrorIs(t, err, common.ErrTitleTooLong)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateNote_RepoError(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	note, err := svc.CreateNote(ctx, 1, domain.NoteCreateInput{Title: "x"})
	assert.Error(t, err)
	assert.Nil(t, note)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNote_ForeignNoteIsNotFound(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, uint64(2), uint64(5)).Return(nil, common.ErrNoteNotFound)

	_, err := svc.GetNote(ctx, 2, 5)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
}

func TestListNotes_NeverNil(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()
	opts := repository.NoteListOptions{Search: "milk"}

	repo.On("List", ctx, uint64(1), opts).Return([]*domain.Note(nil), nil)

	notes, err := svc.ListNotes(ctx, 1, opts)
	assert.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestUpdateNote_EmptyInputReturnsCurrent(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()
	current := &domain.Note{ID: 3, UserID: 1, Title: "keep"}

	repo.On("FindByID", ctx, uint64(1), uint64(3)).Return(current, nil).Once()

	note, err := svc.UpdateNote(ctx, 1, 3, domain.NoteUpdateInput{})
	assert.NoError(t, err)
	assert.Same(t, current, note)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdateNote_OnlySuppliedColumns(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()
	before := &domain.Note{ID: 3, UserID: 1, Title: "old", Content: "body"}
	after := &domain.Note{ID: 3, UserID: 1, Title: "old", Content: "body", IsArchived: true}

	repo.On("FindByID", ctx, uint64(1), uint64(3)).Return(before, nil).Once()
	repo.On("Update", ctx, uint64(1), uint64(3), map[string]interface{}{"is_archived": true}).Return(nil)
	repo.On("FindByID", ctx, uint64(1), uint64(3)).Return(after, nil).Once()

	note, err := svc.UpdateNote(ctx, 1, 3, domain.NoteUpdateInput{IsArchived: boolPtr(true)})
	assert.NoError(t, err)
	assert.True(t, note.IsArchived)
	repo.AssertExpectations(t)
}

func TestUpdateNote_NotOwnedNoMutation(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, uint64(9), uint64(3)).Return(nil, common.ErrNoteNotFound)

	_, err := svc.UpdateNote(ctx, 9, 3, domain.NoteUpdateInput{Title: strPtr("mine now")})
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateNote_EmptyTitleRejectedBeforeStore(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)

	_, err := svc.UpdateNote(context.Background(), 1, 3, domain.NoteUpdateInput{Title: strPtr("")})
	assert.ErrorIs(t, err, common.ErrTitleEmpty)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateNote_TagsEncodedAsTags(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()
	tags := []string{"a", "b", "a"}
	current := &domain.Note{ID: 3, UserID: 1, Title: "t"}

	repo.On("FindByID", ctx, uint64(1), uint64(3)).Return(current, nil)
	repo.On("Update", ctx, uint64(1), uint64(3), map[string]interface{}{"tags": domain.Tags{"a", "b", "a"}}).Return(nil)

	_, err := svc.UpdateNote(ctx, 1, 3, domain.NoteUpdateInput{Tags: &tags})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteNote(t *testing.T) {
	repo := new(mockNoteRepo)
	svc := NewNoteService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, uint64(1), uint64(3)).Return(true, nil)
	repo.On("Delete", ctx, uint64(1), uint64(4)).Return(false, nil)

	ok, err := svc.DeleteNote(ctx, 1, 3)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteNote(ctx, 1, 4)
	assert.NoError(t, err)
	assert.False(t, ok)
}
