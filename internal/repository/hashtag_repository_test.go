package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

func TestHashtagRepo_Upsert_ReturnsExistingID(t *testing.T) {
    db, mock := newMock(t)
    repo := NewHashtagRepo(db)

    // On conflict MySQL reports the LAST_INSERT_ID(id) value and zero new rows.
    mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)")).
        WithArgs("ambient").
        WillReturnResult(sqlmock.NewResult(11, 0))

    id, err := repo.Upsert(context.Background(), "ambient")
    require.NoError(t, err)
    assert.Equal(t, uint64(11), id)
}

func TestHashtagRepo_Upsert_Error(t *testing.T) {
    db, mock := newMock(t)
    repo := NewHashtagRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO hashtags")).
        WillReturnError(errors.New("lock wait timeout"))

    _, err := repo.Upsert(context.Background(), "ambient")
    require.ErrorIs(t, err, errs.ErrStorage)
}

func TestHashtagRepo_Link(t *testing.T) {
    db, mock := newMock(t)
    repo := NewHashtagRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO entity_hashtags")).
        WithArgs(uint64(42), "sound", uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    require.NoError(t, repo.Link(context.Background(), 42, model.EntitySound, 11))
}

func TestHashtagRepo_ForEntity(t *testing.T) {
    db, mock := newMock(t)
    repo := NewHashtagRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("WHERE eh.entity_id = ? AND eh.entity_type = ?")).
        WithArgs(uint64(3), "soundpack").
        WillReturnRows(sqlmock.NewRows([]string{"id", "tag"}).AddRow(int64(1), "a").AddRow(int64(2), "b"))

    got, err := repo.ForEntity(context.Background(), 3, model.EntitySoundpack)
    require.NoError(t, err)
    assert.Equal(t, []model.Hashtag{{ID: 1, Tag: "a"}, {ID: 2, Tag: "b"}}, got)
}
