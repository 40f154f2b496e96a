package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/utils"
)

func newAuth(t *testing.T) (*AuthService, *fakeUsers, *utils.TokenService) {
    t.Helper()
    tokens, err := utils.NewTokenService("test-secret", 0)
    require.NoError(t, err)
    users := &fakeUsers{}
    return NewAuthService(users, tokens, 4, nil), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
    svc, _, tokens := newAuth(t)
    ctx := context.Background()

    u, err := svc.Register(ctx, " Ana@Example.com", "bandoneon")
    require.NoError(t, err)
    assert.Equal(t, "ana@example.com", u.Email)
    assert.Equal(t, model.RoleUser, u.Role)
    assert.Len(t, u.ID, 36)
    assert.NotEqual(t, "bandoneon", u.HashedPassword)

    sess, err := svc.Login(ctx, "ANA@example.com", "bandoneon")
    require.NoError(t, err)
    assert.Equal(t, u.ID, sess.User.ID)

    claims, ok := tokens.Verify(sess.Token)
    require.True(t, ok)
    assert.Equal(t, u.ID, claims.Subject)
    assert.Equal(t, model.RoleUser, claims.Role)
    assert.WithinDuration(t, sess.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
    svc, _, _ := newAuth(t)
    ctx := context.Background()
    _, err := svc.Register(ctx, "ana@example.com", "bandoneon")
    require.NoError(t, err)

    _, errWrong := svc.Login(ctx, "ana@example.com", "accordion")
    _, errUnknown := svc.Login(ctx, "nobody@example.com", "bandoneon")
    require.ErrorIs(t, errWrong, errs.ErrInvalidCredentials)
    require.ErrorIs(t, errUnknown, errs.ErrInvalidCredentials)
    assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
    svc, _, _ := newAuth(t)
    cost, err := bcrypt.Cost([]byte(svc.dummyHash))
    require.NoError(t, err)
    assert.Equal(t, 4, cost)

    var compared []string
    svc.verify = func(hash, plain string) bool {
        compared = append(compared, hash)
        return utils.VerifyPassword(hash, plain)
    }

    _, err = svc.Login(context.Background(), "nobody@example.com", "bandoneon")
    require.ErrorIs(t, err, errs.ErrInvalidCredentials)
    assert.Equal(t, []string{svc.dummyHash}, compared)
}

func TestLogin_StorageErrorPassesThrough(t *testing.T) {
    svc, users, _ := newAuth(t)
    users.getErr = errs.Storage("users.get_by_email", errors.New("timeout"))

    _, err := svc.Login(context.Background(), "ana@example.com", "x")
    require.ErrorIs(t, err, errs.ErrStorage)
}

func TestCreateUser(t *testing.T) {
    svc, _, _ := newAuth(t)
    ctx := context.Background()

    admin, err := svc.CreateUser(ctx, "root@example.com", "s3cret", model.RoleAdmin)
    require.NoError(t, err)
    assert.Equal(t, model.RoleAdmin, admin.Role)

    _, err = svc.CreateUser(ctx, "root@example.com", "other", model.RoleUser)
    require.ErrorIs(t, err, errs.ErrAlreadyExists)

    _, err = svc.CreateUser(ctx, "x@example.com", "pw", "owner")
    require.ErrorIs(t, err, errs.ErrValidation)

    _, err = svc.CreateUser(ctx, "not-an-email", "pw", model.RoleUser)
    require.ErrorIs(t, err, errs.ErrValidation)
}

func TestMe(t *testing.T) {
    svc, _, _ := newAuth(t)
    ctx := context.Background()
    u, err := svc.Register(ctx, "ana@example.com", "bandoneon")
    require.NoError(t, err)

    got, err := svc.Me(ctx, &model.Claims{Subject: u.ID})
    require.NoError(t, err)
    assert.Equal(t, u.Email, got.Email)

    _, err = svc.Me(ctx, &model.Claims{Subject: "deleted"})
    require.ErrorIs(t, err, errs.ErrUnauthenticated)

    _, err = svc.Me(ctx, nil)
    require.ErrorIs(t, err, errs.ErrUnauthenticated)
}
