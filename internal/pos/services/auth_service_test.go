package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type fakeUserRepo struct {
	users     map[int64]models.User
	passwords map[int64]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[int64]models.User),
		passwords: make(map[int64]string),
	}
}

func (f *fakeUserRepo) add(t *testing.T, user models.User, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
	f.users[user.ID] = user
	f.passwords[user.ID] = user.PasswordHash
	return user
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeUserRepo) Get(_ context.Context, id int64) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, core.ErrNotFound
	}
	user.PasswordHash = f.passwords[id]
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for id, user := range f.users {
		if user.Email == email {
			user.PasswordHash = f.passwords[id]
			return user, nil
		}
	}
	return models.User{}, core.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u models.User) (models.User, error) {
	u.ID = int64(len(f.users) + 1)
	f.users[u.ID] = u
	f.passwords[u.ID] = u.PasswordHash
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u models.User) (models.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	if _, ok := f.users[id]; !ok {
		return core.ErrNotFound
	}
	f.passwords[id] = hash
	return nil
}

type fakeResetRepo struct {
	codes map[string]models.ResetCode
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{codes: make(map[string]models.ResetCode)}
}

func (f *fakeResetRepo) Store(_ context.Context, userID int64, code string, expiresAt time.Time) error {
	for existing, rc := range f.codes {
		if rc.UserID == userID {
			delete(f.codes, existing)
		}
	}
	f.codes[code] = models.ResetCode{UserID: userID, Code: code, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeResetRepo) Consume(_ context.Context, code string, now time.Time) (int64, error) {
	rc, ok := f.codes[code]
	if !ok || !rc.ExpiresAt.After(now) {
		delete(f.codes, code)
		return 0, core.ErrNotFound
	}
	delete(f.codes, code)
	return rc.UserID, nil
}

func (f *fakeResetRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for code, rc := range f.codes {
		if !rc.ExpiresAt.After(now) {
			delete(f.codes, code)
			removed++
		}
	}
	return removed, nil
}

type capturingMailer struct {
	email string
	code  string
}

func (m *capturingMailer) SendResetCode(_ context.Context, email, code string) error {
	m.email = email
	m.code = code
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeResetRepo, *capturingMailer) {
	t.Helper()
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	mailer := &capturingMailer{}
	svc := NewAuthService(users, resets, mailer, "test-secret", time.Hour, 15*time.Minute, testLogger())
	return svc, users, resets, mailer
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(t, models.User{ID: 1, FirstName: "Aida", LastName: "S", Email: "aida@example.com", Status: "active", Role: core.RoleCashier}, "secret123")

	token, user, err := svc.Login(context.Background(), "aida@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, core.RoleCashier, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(t, models.User{ID: 1, Email: "aida@example.com", Status: "active", Role: core.RoleWaiter}, "secret123")

	_, _, err := svc.Login(context.Background(), "aida@example.com", "wrong")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(t, models.User{ID: 1, Email: "aida@example.com", Status: "disabled", Role: core.RoleWaiter}, "secret123")

	_, _, err := svc.Login(context.Background(), "aida@example.com", "secret123")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(t, models.User{ID: 1, Email: "aida@example.com", Status: "active", Role: core.RoleWaiter}, "secret123")

	token, _, err := svc.Login(context.Background(), "aida@example.com", "secret123")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestResetFlow(t *testing.T) {
	svc, users, _, mailer := newAuthFixture(t)
	users.add(t, models.User{ID: 3, Email: "chef@example.com", Status: "active", Role: core.RoleKitchen}, "oldpass")

	require.NoError(t, svc.RequestReset(context.Background(), "chef@example.com"))
	assert.Equal(t, "chef@example.com", mailer.email)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), mailer.code)

	require.NoError(t, svc.ConfirmReset(context.Background(), mailer.code, "newpass1"))

	_, _, err := svc.Login(context.Background(), "chef@example.com", "newpass1")
	require.NoError(t, err)

	// The code is single-use.
	err = svc.ConfirmReset(context.Background(), mailer.code, "another1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResetCodeReplacedByNewRequest(t *testing.T) {
	svc, users, resets, mailer := newAuthFixture(t)
	users.add(t, models.User{ID: 3, Email: "chef@example.com", Status: "active", Role: core.RoleKitchen}, "oldpass")

	require.NoError(t, svc.RequestReset(context.Background(), "chef@example.com"))
	first := mailer.code

	require.NoError(t, svc.RequestReset(context.Background(), "chef@example.com"))
	second := mailer.code

	if first != second {
		err := svc.ConfirmReset(context.Background(), first, "newpass1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	}
	assert.Len(t, resets.codes, 1)
	require.NoError(t, svc.ConfirmReset(context.Background(), second, "newpass1"))
}

func TestResetCodeExpires(t *testing.T) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	mailer := &capturingMailer{}
	svc := NewAuthService(users, resets, mailer, "test-secret", time.Hour, -time.Minute, testLogger())
	users.add(t, models.User{ID: 3, Email: "chef@example.com", Status: "active", Role: core.RoleKitchen}, "oldpass")

	require.NoError(t, svc.RequestReset(context.Background(), "chef@example.com"))

	err := svc.ConfirmReset(context.Background(), mailer.code, "newpass1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestConfirmResetShortPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ConfirmReset(context.Background(), "123456", "short")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(t, models.User{ID: 5, Email: "w@example.com", Status: "active", Role: core.RoleWaiter}, "oldpass1")

	require.NoError(t, svc.ChangePassword(context.Background(), 5, "oldpass1", "newpass1"))

	err := svc.ChangePassword(context.Background(), 5, "oldpass1", "anything1")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, _, err = svc.Login(context.Background(), "w@example.com", "newpass1")
	require.NoError(t, err)
}

func TestNewResetCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := newResetCode()
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
		seen[code] = true
	}
	// 50 draws from a million values should not collapse to one.
	assert.Greater(t, len(seen), 1)
}
