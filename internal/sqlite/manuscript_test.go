package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/repository"
	"github.com/stretchr/testify/require"
)

func newManuscript(id, code string, received time.Time) *manuscript.Manuscript {
	return &manuscript.Manuscript{
		ID:           id,
		Code:         code,
		Status:       manuscript.StatusUntouched,
		Priority:     manuscript.PriorityNormal,
		DateReceived: received,
	}
}

func TestManuscriptRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)

	received := time.Date(2026, time.January, 12, 9, 30, 0, 0, time.UTC)
	due := received.AddDate(0, 0, 3)
	m := newManuscript("m1", "JRN-1001", received)
	m.DueDate = &due
	m.Notes = []manuscript.Note{{ID: "n1", Text: "rush", CreatedAt: received}}
	require.NoError(t, repo.Create(ctx, "user1", m))

	got, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	require.Equal(t, "JRN-1001", got.Code)
	require.Equal(t, "user1", got.UserID)
	require.Equal(t, manuscript.StatusUntouched, got.Status)
	require.True(t, got.DateReceived.Equal(received))
	require.NotNil(t, got.DueDate)
	require.True(t, got.DueDate.Equal(due))
	require.Nil(t, got.CompletedDate)
	require.Len(t, got.Notes, 1)
	require.Equal(t, "rush", got.Notes[0].Text)

	_, err = repo.Get(ctx, "user2", "m1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestManuscriptRepository_DuplicateCodeIsCaseInsensitive(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m1", "JRN-1", received)))
	err := repo.Create(ctx, "user1", newManuscript("m2", "jrn-1", received))
	require.ErrorIs(t, err, repository.ErrConflict)

	// Codes are unique per user only.
	require.NoError(t, repo.Create(ctx, "user2", newManuscript("m3", "JRN-1", received)))
}

func TestManuscriptRepository_DuplicateCodeFoldsUnicode(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m1", "Straße-1", received)))
	err := repo.Create(ctx, "user1", newManuscript("m2", "STRASSE-1", received))
	require.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m3", "ÉCOLE-2", received)))
	err = repo.Create(ctx, "user1", newManuscript("m4", " école-2", received))
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestManuscriptRepository_CodeContainsIsLiteral(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	for _, code := range []string{"A_1", "AB1", "50%-OFF", "Straße-9"} {
		require.NoError(t, repo.Create(ctx, "user1", newManuscript(code, code, received)))
	}

	underscore, err := repo.List(ctx, "user1", manuscript.ListOptions{CodeContains: "_"})
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	require.Equal(t, "A_1", underscore[0].Code)

	percent, err := repo.List(ctx, "user1", manuscript.ListOptions{CodeContains: "%"})
	require.NoError(t, err)
	require.Len(t, percent, 1)
	require.Equal(t, "50%-OFF", percent[0].Code)

	folded, err := repo.List(ctx, "user1", manuscript.ListOptions{CodeContains: "STRASSE"})
	require.NoError(t, err)
	require.Len(t, folded, 1)
	require.Equal(t, "Straße-9", folded[0].Code)
}

func TestManuscriptRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	base := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	for i, code := range []string{"ABC-1", "ABC-2", "XYZ-3"} {
		m := newManuscript(code, code, base.AddDate(0, 0, i))
		if i == 1 {
			m.Status = manuscript.StatusWorked
			m.Priority = manuscript.PriorityUrgent
		}
		require.NoError(t, repo.Create(ctx, "user1", m))
	}

	all, err := repo.List(ctx, "user1", manuscript.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "XYZ-3", all[0].Code)

	worked, err := repo.List(ctx, "user1", manuscript.ListOptions{Statuses: []manuscript.Status{manuscript.StatusWorked, manuscript.StatusBilled}})
	require.NoError(t, err)
	require.Len(t, worked, 1)
	require.Equal(t, "ABC-2", worked[0].Code)

	urgent, err := repo.List(ctx, "user1", manuscript.ListOptions{Priorities: []manuscript.Priority{manuscript.PriorityUrgent}})
	require.NoError(t, err)
	require.Len(t, urgent, 1)

	abc, err := repo.List(ctx, "user1", manuscript.ListOptions{CodeContains: "abc"})
	require.NoError(t, err)
	require.Len(t, abc, 2)

	paged, err := repo.List(ctx, "user1", manuscript.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	require.Equal(t, "ABC-2", paged[0].Code)

	skipped, err := repo.List(ctx, "user1", manuscript.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, skipped, 1)

	none, err := repo.List(ctx, "user2", manuscript.ListOptions{})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestManuscriptRepository_UpdatePersistsDatesAndNotes(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m1", "JRN-1", received)))

	m, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	at := received.Add(26 * time.Hour)
	manuscript.ApplyStatus(m, manuscript.StatusWorked, at)
	m.ClaimedCycleID = "2026-01-C1"
	require.NoError(t, repo.Update(ctx, "user1", m))
	require.NoError(t, repo.Update(ctx, "user1", m))

	got, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	require.Equal(t, manuscript.StatusWorked, got.Status)
	require.NotNil(t, got.CompletedDate)
	require.True(t, got.CompletedDate.Equal(at))
	require.Equal(t, "2026-01-C1", got.ClaimedCycleID)
	require.Len(t, got.Notes, len(m.Notes))

	missing := newManuscript("ghost", "G", received)
	require.ErrorIs(t, repo.Update(ctx, "user1", missing), repository.ErrNotFound)
}

func TestManuscriptRepository_UpdateManyIsAllOrNothing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m1", "A", received)))
	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m2", "B", received)))

	m1, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	m1.Status = manuscript.StatusBilled
	ghost := newManuscript("ghost", "C", received)

	err = repo.UpdateMany(ctx, "user1", []manuscript.Manuscript{*m1, *ghost})
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	require.Equal(t, manuscript.StatusUntouched, got.Status)

	m2, err := repo.Get(ctx, "user1", "m2")
	require.NoError(t, err)
	m2.Status = manuscript.StatusWorked
	require.NoError(t, repo.UpdateMany(ctx, "user1", []manuscript.Manuscript{*m1, *m2}))

	list, err := repo.List(ctx, "user1", manuscript.ListOptions{Statuses: []manuscript.Status{manuscript.StatusBilled, manuscript.StatusWorked}})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestManuscriptRepository_NotesNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "user1", newManuscript("m1", "A", received)))

	require.NoError(t, repo.AddNote(ctx, "m1", &manuscript.Note{ID: "n1", Text: "first", CreatedAt: received.Add(time.Hour)}))
	require.NoError(t, repo.AddNote(ctx, "m1", &manuscript.Note{ID: "n2", Text: "second", CreatedAt: received.Add(2 * time.Hour)}))
	require.ErrorIs(t, repo.AddNote(ctx, "ghost", &manuscript.Note{ID: "n3", Text: "x", CreatedAt: received}), repository.ErrNotFound)

	got, err := repo.Get(ctx, "user1", "m1")
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	require.Equal(t, "second", got.Notes[0].Text)
	require.Equal(t, "first", got.Notes[1].Text)
}

func TestManuscriptRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewManuscriptRepository(db)
	received := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)
	m := newManuscript("m1", "A", received)
	m.Notes = []manuscript.Note{{ID: "n1", Text: "x", CreatedAt: received}}
	require.NoError(t, repo.Create(ctx, "user1", m))

	require.ErrorIs(t, repo.Delete(ctx, "user2", "m1"), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "user1", "m1"))
	_, err := repo.Get(ctx, "user1", "m1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var notes int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM manuscript_notes").Scan(&notes))
	require.Zero(t, notes)
}
