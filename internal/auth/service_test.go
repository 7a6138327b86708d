// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*UserInfo)}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	email, passwordHash, name, role string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, core.ErrDuplicateKey
		}
	}
	u := &UserInfo{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) stored(email string) *UserInfo {
	u, _ := f.GetByEmail(context.Background(), email) //nolint:errcheck
	return u
}

func newTestService(users UserProvider, admins ...string) *Service {
	codec := newTestCodec(testAuthConfig(), &fakeClock{t: time.Now()})
	return NewService(users, codec, NewAdminAllowList(admins))
}

func TestRegisterThenSignIn(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users)

	created, err := svc.Register(ctx, RegisterRequest{
		Name: "Ana", Email: "Ana@Example.com", Password: "summit1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Email != "ana@example.com" || created.Role != middleware.RoleUser {
		t.Fatalf("created = %+v", created)
	}
	if stored := users.stored("ana@example.com"); stored.PasswordHash == "summit1" {
		t.Fatal("password stored in clear")
	}

	res, err := svc.SignIn(ctx, SignInRequest{Email: "ANA@example.com", Password: "summit1"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.Token == "" || res.User.ID != created.ID {
		t.Fatalf("SignIn result = %+v", res)
	}

	id, _, err := svc.tokens.Verify(res.Token)
	if err != nil || id.ID != created.ID {
		t.Fatalf("issued token verify = %+v, %v", id, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers())

	if _, err := svc.Register(ctx, RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "summit1",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterRequest{
		Name: "Other", Email: "ANA@example.com", Password: "summit2",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("second Register = %v, want ErrEmailExists", err)
	}
}

func TestSignInFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers())

	if _, err := svc.Register(ctx, RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "summit1",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []SignInRequest{
		{Email: "ana@example.com", Password: "wrong-one"},
		{Email: "nobody@example.com", Password: "summit1"},
	}
	for _, req := range tests {
		_, err := svc.SignIn(ctx, req)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("SignIn(%s) = %v, want ErrInvalidCredentials", req.Email, err)
		}
	}
}

func TestSignInRederivesRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()

	if _, err := newTestService(users).Register(ctx, RegisterRequest{
		Name: "Root", Email: "root@example.com", Password: "summit1",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	promoted := newTestService(users, "root@example.com")
	res, err := promoted.SignIn(ctx, SignInRequest{Email: "root@example.com", Password: "summit1"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.User.Role != middleware.RoleAdmin {
		t.Fatalf("role = %q, want admin", res.User.Role)
	}
	if got := users.stored("root@example.com").Role; got != middleware.RoleAdmin {
		t.Fatalf("stored role = %q, want admin", got)
	}

	demoted := newTestService(users)
	res, err = demoted.SignIn(ctx, SignInRequest{Email: "root@example.com", Password: "summit1"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.User.Role != middleware.RoleUser {
		t.Fatalf("role after removal = %q, want user", res.User.Role)
	}
}

func TestSignInUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()

	legacy, err := bcrypt.GenerateFromPassword([]byte("summit1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if _, err := users.Create(
		ctx, "old@example.com", string(legacy), "Old", middleware.RoleUser,
	); err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc := newTestService(users)
	if _, err := svc.SignIn(ctx, SignInRequest{
		Email: "old@example.com", Password: "summit1",
	}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if hash := users.stored("old@example.com").PasswordHash; !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash after sign-in = %q, want argon2id", hash)
	}
}

func TestSignInWithoutPasswordHash(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	if _, err := users.Create(ctx, "oauth@example.com", "", "OAuth", middleware.RoleUser); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := newTestService(users).SignIn(ctx, SignInRequest{
		Email: "oauth@example.com", Password: "anything",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("SignIn = %v, want ErrInvalidCredentials", err)
	}
}

func TestSwitchRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users, "root@example.com")

	created, err := svc.Register(ctx, RegisterRequest{
		Name: "Root", Email: "root@example.com", Password: "summit1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	current := middleware.Identity{
		ID: created.ID, Email: created.Email, Name: created.Name, Role: created.Role,
	}

	if _, err := svc.SwitchRole(ctx, current, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("SwitchRole(superuser) = %v, want ErrInvalidRole", err)
	}

	res, err := svc.SwitchRole(ctx, current, middleware.RoleUser)
	if err != nil {
		t.Fatalf("SwitchRole: %v", err)
	}

	id, _, err := svc.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Role != middleware.RoleUser || id.ID != created.ID {
		t.Fatalf("switched identity = %+v", id)
	}
}
