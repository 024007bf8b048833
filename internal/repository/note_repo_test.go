package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, repo NoteRepository, note *domain.Note) *domain.Note {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), note))
	return note
}

func titles(notes []*domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestNoteRepo_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	note := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "Shopping", Tags: domain.Tags{"a", "b", "a"}})
	require.NotZero(t, note.ID)

	got, err := repo.FindByID(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", got.Title)
	assert.Equal(t, "", got.Content)
	assert.Equal(t, domain.Tags{"a", "b", "a"}, got.Tags)
	assert.False(t, got.IsArchived)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestNoteRepo_CreateNilTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")

	note := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "t"})

	got, err := repo.FindByID(context.Background(), user.ID, note.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestNoteRepo_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	ctx := context.Background()

	note := createNote(t, repo, &domain.Note{UserID: alice.ID, Title: "private"})

	_, err := repo.FindByID(ctx, bob.ID, note.ID)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)

	notes, err := repo.List(ctx, bob.ID, NoteListOptions{})
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, repo.Update(ctx, bob.ID, note.ID, map[string]interface{}{"title": "hijacked"}))
	got, err := repo.FindByID(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	deleted, err := repo.Delete(ctx, bob.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestNoteRepo_FindMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")

	_, err := repo.FindByID(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
}

func TestNoteRepo_ListSortAndPage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "bravo", CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour)})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "alpha", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "charlie", CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)})

	notes, err := repo.List(ctx, user.ID, NoteListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bravo", "charlie", "alpha"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{SortBy: "title", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{SortBy: "createdAt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{SortBy: "title", SortDir: "ASC", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"bravo"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestNoteRepo_ListArchivedFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "live"})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "old", IsArchived: true})

	yes, no := true, false

	notes, err := repo.List(ctx, user.ID, NoteListOptions{Archived: &yes})
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Archived: &no})
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{})
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestNoteRepo_ListTagExactMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "groceries", Tags: domain.Tags{"home", "shopping"}})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "trip", Tags: domain.Tags{"homework"}})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "untagged"})

	notes, err := repo.List(ctx, user.ID, NoteListOptions{Tag: "home"})
	require.NoError(t, err)
	assert.Equal(t, []string{"groceries"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Tag: "hom"})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteRepo_ListSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "Shopping List", Content: "milk"})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "Ideas", Content: "buy more MILK chocolate"})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "Budget", Content: "save 100% of it"})
	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "Other", Content: "save 1000 of it"})

	notes, err := repo.List(ctx, user.ID, NoteListOptions{Search: "shop", SortBy: "title", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shopping List"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Search: "Milk", SortBy: "title", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ideas", "Shopping List"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budget"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{Search: "   "})
	require.NoError(t, err)
	assert.Len(t, notes, 4)
}

func TestNoteRepo_UpdateRefreshesTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	note := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "t", Content: "keep", CreatedAt: past, UpdatedAt: past})

	require.NoError(t, repo.Update(ctx, user.ID, note.ID, map[string]interface{}{
		"title": "renamed",
		"tags":  domain.NewTags([]string{"x"}),
	}))

	got, err := repo.FindByID(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "keep", got.Content)
	assert.Equal(t, domain.Tags{"x"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(past))
	assert.True(t, got.UpdatedAt.After(past))
}

func TestNoteRepo_MalformedTagsReadAsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")

	note := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "t", Tags: domain.Tags{"ok"}})
	require.NoError(t, db.Exec("UPDATE notes SET tags = ? WHERE id = ?", "not json", note.ID).Error)

	got, err := repo.FindByID(context.Background(), user.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Tags{}, got.Tags)
}

func TestNoteRepo_ListTagSkipsMalformedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	createNote(t, repo, &domain.Note{UserID: user.ID, Title: "good", Tags: domain.Tags{"home"}})
	broken := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "broken", Tags: domain.Tags{"home"}})
	require.NoError(t, db.Exec("UPDATE notes SET tags = ? WHERE id = ?", "not json", broken.ID).Error)

	notes, err := repo.List(ctx, user.ID, NoteListOptions{Tag: "home"})
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, titles(notes))

	notes, err = repo.List(ctx, user.ID, NoteListOptions{SortBy: "title", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "good"}, titles(notes))
	assert.Equal(t, domain.Tags{}, notes[0].Tags)
}

func TestNoteRepo_ListUnknownSortAndLimitClamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxListLimit+5; i++ {
		createNote(t, repo, &domain.Note{
			UserID:    user.ID,
			Title:     fmt.Sprintf("n%03d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	notes, err := repo.List(ctx, user.ID, NoteListOptions{SortBy: "password", Limit: 500})
	require.NoError(t, err)
	require.Len(t, notes, MaxListLimit)

	assert.Equal(t, fmt.Sprintf("n%03d", MaxListLimit+4), notes[0].Title)
	for i := 1; i < len(notes); i++ {
		assert.True(t, notes[i-1].UpdatedAt.After(notes[i].UpdatedAt), "updatedAt descending at %d", i)
	}
}

func TestNoteRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	user := seedUser(t, db, "a@example.com")
	ctx := context.Background()

	note := createNote(t, repo, &domain.Note{UserID: user.ID, Title: "t"})

	deleted, err := repo.Delete(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, user.ID, note.ID)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
}
