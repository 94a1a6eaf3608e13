package user

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"slotbook/config"
	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/session"
	"slotbook/services/tasks"
	"slotbook/services/verification"
	"slotbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

type fixture struct {
	svc      *DefaultUserService
	repo     *memrepo.Users
	pub      *tasks.MemoryPublisher
	sessions *session.MemoryStore
}

func newFixture() *fixture {
	pub := &tasks.MemoryPublisher{}
	repo := memrepo.NewUsers()
	sessions := session.NewMemoryStore()
	return &fixture{
		svc: &DefaultUserService{
			Repo: repo,
			Verification: &verification.DefaultVerificationService{
				Store:     verification.NewMemoryCodeStore(),
				Publisher: pub,
				TTL:       time.Minute,
			},
			Sessions: sessions,
			TokenTTL: time.Hour,
		},
		repo:     repo,
		pub:      pub,
		sessions: sessions,
	}
}

func (f *fixture) code(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, f.svc.SendCode(context.Background(), email))
	sent := f.pub.Tasks()
	var p tasks.VerificationCodePayload
	require.NoError(t, json.Unmarshal(sent[len(sent)-1].Payload(), &p))
	return p.Code
}

func (f *fixture) register(t *testing.T, username, email, spec string) string {
	t.Helper()
	id, err := f.svc.Register(context.Background(), models.RegisterRequest{
		FullName:       "Test User",
		Username:       username,
		Email:          email,
		Password:       "secret123",
		Specialization: spec,
		Code:           f.code(t, email),
	})
	require.NoError(t, err)
	return id
}

func TestRegister(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id := f.register(t, "anna", "Anna@Example.com", "")
	u, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SpecializationClient, u.Specialization)
	assert.Equal(t, "anna@example.com", u.Email)
	assert.Equal(t, 5.0, u.AverageRating)
	assert.False(t, u.IsMaster())
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	base := models.RegisterRequest{FullName: "Anna K", Username: "anna", Email: "a@x.io", Password: "secret123", Code: "000000"}
	cases := map[string]func(r *models.RegisterRequest){
		"short name":        func(r *models.RegisterRequest) { r.FullName = "A" },
		"short username":    func(r *models.RegisterRequest) { r.Username = "an" },
		"username symbols":  func(r *models.RegisterRequest) { r.Username = "an_na" },
		"short password":    func(r *models.RegisterRequest) { r.Password = "abc1" },
		"password no digit": func(r *models.RegisterRequest) { r.Password = "abcdefghij" },
		"spec with digits":  func(r *models.RegisterRequest) { r.Specialization = "barber2" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := f.svc.Register(ctx, req)
			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestRegister_CodeAndDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, models.RegisterRequest{
		FullName: "Anna K", Username: "anna", Email: "a@x.io", Password: "secret123", Code: "999999",
	})
	assert.ErrorIs(t, err, verification.ErrInvalidCode)

	f.register(t, "anna", "a@x.io", "barber")
	_, err = f.svc.Register(ctx, models.RegisterRequest{
		FullName: "Anna K", Username: "anna", Email: "b@x.io", Password: "secret123", Code: f.code(t, "b@x.io"),
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.register(t, "anna", "a@x.io", "barber")

	_, err := f.svc.Login(ctx, models.LoginRequest{Username: "anna", Password: "wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := f.svc.Login(ctx, models.LoginRequest{Username: "anna", Password: "secret123"})
	require.NoError(t, err)
	sub, exp, err := utils.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, id, sub)
	assert.True(t, exp.After(time.Now()))

	cached, err := f.sessions.Lookup(ctx, utils.HashToken(token), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, id, cached)

	require.NoError(t, f.svc.Logout(ctx, token))
	revoked, err := f.sessions.IsRevoked(ctx, utils.HashToken(token))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRestore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, "anna", "a@x.io", "")

	err := f.svc.Restore(ctx, models.RestoreRequest{Email: "a@x.io", Code: f.code(t, "a@x.io"), Password: "newpass99"})
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "anna", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Authenticate(ctx, "anna", "newpass99")
	assert.NoError(t, err)
}

func TestMastersAndSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, "anna", "a@x.io", "barber")
	f.register(t, "olga", "o@x.io", "nails")
	f.register(t, "bob", "b@x.io", "")

	masters, err := f.svc.ListMasters(ctx, models.MasterFilter{})
	require.NoError(t, err)
	assert.Len(t, masters, 2)

	barbers, err := f.svc.ListMasters(ctx, models.MasterFilter{Specialization: "barber"})
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.Equal(t, "anna", barbers[0].Username)

	_, err = f.svc.ListMasters(ctx, models.MasterFilter{MinRating: 7})
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.GetMasterByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrMasterNotFound)
	m, err := f.svc.GetMasterByUsername(ctx, "olga")
	require.NoError(t, err)
	assert.Equal(t, "nails", m.Specialization)

	found, err := f.svc.Search(ctx, "NAIL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "olga", found[0].Username)

	none, err := f.svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.register(t, "anna", "a@x.io", "")
	f.register(t, "olga", "o@x.io", "")

	u, err := f.svc.Update(ctx, id, models.UserUpdateRequest{Bio: "hi", Specialization: "barber"})
	require.NoError(t, err)
	assert.Equal(t, "hi", u.Bio)
	assert.True(t, u.IsMaster())
	assert.Equal(t, "anna", u.Username)

	_, err = f.svc.Update(ctx, id, models.UserUpdateRequest{Username: "olga"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = f.svc.Update(ctx, id, models.UserUpdateRequest{Email: "not-an-email"})
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLinkTelegram(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, "anna", "a@x.io", "barber")
	f.register(t, "bob", "b@x.io", "")

	_, err := f.svc.LinkTelegram(ctx, "bob", "secret123", 42)
	assert.ErrorIs(t, err, ErrNotMaster)

	u, err := f.svc.LinkTelegram(ctx, "anna", "secret123", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.TelegramChatID)

	linked, err := f.repo.GetByTelegramChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "anna", linked.Username)
}
