package repository

import (
    "context"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

var soundpackColumns = []string{"id", "name", "description", "cover_image_url", "created_at", "tags"}

func TestSoundpackRepo_Create(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    desc := "Late night bellows"
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO soundpacks")).
        WithArgs("Tango Loops", desc, nil, sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(7, 1))

    p := &model.Soundpack{Name: "Tango Loops", Description: &desc}
    require.NoError(t, repo.Create(context.Background(), p))
    assert.Equal(t, uint64(7), p.ID)
}

func TestSoundpackRepo_Create_DuplicateName(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO soundpacks")).
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Tango Loops' for key 'uq_soundpacks_name'"})

    p := &model.Soundpack{Name: "Tango Loops"}
    err := repo.Create(context.Background(), p)
    require.ErrorIs(t, err, errs.ErrAlreadyExists)
    assert.Zero(t, p.ID)
}

func TestSoundpackRepo_Create_OtherDriverError(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO soundpacks")).
        WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

    err := repo.Create(context.Background(), &model.Soundpack{Name: "x"})
    require.ErrorIs(t, err, errs.ErrStorage)
    assert.NotErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestSoundpackRepo_Exists(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM soundpacks WHERE id = ?")).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM soundpacks WHERE id = ?")).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"1"}))

    ok, err := repo.Exists(context.Background(), 3)
    require.NoError(t, err)
    assert.True(t, ok)

    ok, err = repo.Exists(context.Background(), 99)
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestSoundpackRepo_List(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    now := time.Now().UTC()
    mock.ExpectQuery(regexp.QuoteMeta("ORDER BY sp.name")).
        WillReturnRows(sqlmock.NewRows(soundpackColumns).
            AddRow(int64(2), "Milonga", nil, "https://cdn.example.com/m.jpg", now, "dance").
            AddRow(int64(1), "Tango Loops", "Late night", nil, now, nil))

    got, err := repo.List(context.Background())
    require.NoError(t, err)
    require.Len(t, got, 2)
    assert.Equal(t, []string{"dance"}, got[0].Tags)
    require.NotNil(t, got[0].CoverImageURL)
    assert.Equal(t, []string{}, got[1].Tags)
    assert.Nil(t, got[1].CoverImageURL)
}

func TestSoundpackRepo_GetByID_NotFound(t *testing.T) {
    db, mock := newMock(t)
    repo := NewSoundpackRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("WHERE sp.id = ?")).
        WithArgs(uint64(5)).
        WillReturnRows(sqlmock.NewRows(soundpackColumns))

    _, err := repo.GetByID(context.Background(), 5)
    require.ErrorIs(t, err, errs.ErrNotFound)
}
