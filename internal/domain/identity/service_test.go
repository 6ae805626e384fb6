package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/careops/internal/domain/tenant"
	"github.com/careops/careops/internal/platform/auth"
)

// -- Mock Repositories --

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, tenantID uuid.UUID, email string) (*User, error) {
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID uuid.UUID, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		if u.TenantID == tenantID {
			result = append(result, u)
		}
	}
	return result, len(result), nil
}

type tenantRepoStub struct {
	tenants map[uuid.UUID]*tenant.Tenant
}

func (s *tenantRepoStub) Create(_ context.Context, t *tenant.Tenant) error {
	t.ID = uuid.New()
	s.tenants[t.ID] = t
	return nil
}

func (s *tenantRepoStub) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, ok := s.tenants[id]
	if !ok {
		return nil, tenant.ErrNotFound
	}
	return t, nil
}

func (s *tenantRepoStub) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for _, t := range s.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, tenant.ErrNotFound
}

func (s *tenantRepoStub) Update(_ context.Context, t *tenant.Tenant) error {
	s.tenants[t.ID] = t
	return nil
}

func (s *tenantRepoStub) List(_ context.Context, limit, offset int) ([]*tenant.Tenant, int, error) {
	return nil, 0, nil
}

// -- Fixtures --

type fixture struct {
	svc    *Service
	users  *mockRepo
	tenant *tenant.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tr := &tenantRepoStub{tenants: make(map[uuid.UUID]*tenant.Tenant)}
	tn := &tenant.Tenant{Slug: "mercy-hospital", Name: "Mercy Hospital", Kind: tenant.KindHospital, Status: tenant.StatusActive}
	if err := tr.Create(context.Background(), tn); err != nil {
		t.Fatal(err)
	}
	users := newMockRepo()
	svc := NewService(users, tenant.NewService(tr), auth.NewTokenIssuer([]byte("test-secret-32-bytes-minimum-aaaa")))
	return &fixture{svc: svc, users: users, tenant: tn}
}

func (f *fixture) addUser(t *testing.T, email, password string, role auth.Role) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &User{
		TenantID:     f.tenant.ID,
		Email:        email,
		FullName:     "Test User",
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

// -- Tests --

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)

	res, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "mercy-hospital")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
	if res.User.ID != u.ID {
		t.Errorf("user = %s, want %s", res.User.ID, u.ID)
	}
	if res.Tenant.ID != f.tenant.ID {
		t.Errorf("tenant = %s, want %s", res.Tenant.ID, f.tenant.ID)
	}
}

func TestLoginResolvesTenantByID(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)

	if _, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", f.tenant.ID.String()); err != nil {
		t.Fatalf("login by tenant id: %v", err)
	}
}

// All user-level failures must be indistinguishable from each other.
func TestLoginFailuresAreGeneric(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)

	cases := []struct {
		name     string
		email    string
		password string
		tenant   string
	}{
		{"wrong password", "doctor@mercy.example", "wrong", "mercy-hospital"},
		{"unknown email", "nobody@mercy.example", "correct horse", "mercy-hospital"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password, tc.tenant)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginUnknownTenant(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)

	_, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "no-such-tenant")
	if !errors.Is(err, tenant.ErrNotFound) {
		t.Errorf("err = %v, want tenant.ErrNotFound", err)
	}
}

func TestLoginWrongTenantIsGeneric(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)

	other := &tenant.Tenant{Slug: "other-clinic", Name: "Other Clinic", Kind: tenant.KindClinic, Status: tenant.StatusActive}
	if err := f.svc.tenants.Create(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "other-clinic")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)
	u.Active = false

	_, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "mercy-hospital")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuspendedTenant(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)
	f.tenant.Status = tenant.StatusSuspended

	_, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "mercy-hospital")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRoleAllowList(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "patient@mercy.example", "correct horse", auth.RolePatient)

	_, err := f.svc.Login(context.Background(), "patient@mercy.example", "correct horse", "mercy-hospital", auth.RolePhysician, auth.RoleTenantAdmin)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.svc.Login(context.Background(), "patient@mercy.example", "correct horse", "mercy-hospital", auth.RolePatient); err != nil {
		t.Errorf("allowed role: %v", err)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture(t)
	admin := &auth.Identity{UserID: uuid.New(), TenantID: f.tenant.ID, Role: auth.RoleTenantAdmin}

	u := &User{Email: "Nurse@Mercy.Example", FullName: "New Nurse", Role: auth.RoleReceptionist}
	if err := f.svc.CreateUser(context.Background(), admin, u, "long enough password"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.TenantID != f.tenant.ID {
		t.Errorf("tenant = %s, want caller's tenant %s", u.TenantID, f.tenant.ID)
	}
	if u.Email != "nurse@mercy.example" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.PasswordHash == "long enough password" || u.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long enough password")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	admin := &auth.Identity{UserID: uuid.New(), TenantID: f.tenant.ID, Role: auth.RoleTenantAdmin}

	if err := f.svc.CreateUser(context.Background(), admin, &User{Email: "a@b.c", Role: "janitor"}, "long enough password"); err == nil {
		t.Error("expected error for invalid role")
	}
	if err := f.svc.CreateUser(context.Background(), admin, &User{Email: "a@b.c", Role: auth.RolePhysician}, "short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := f.svc.CreateUser(context.Background(), admin, &User{Email: "a@b.c", Role: auth.RoleSuperAdmin}, "long enough password"); err == nil {
		t.Error("tenant admin must not create super admins")
	}
}

func TestDeactivateUser(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "doctor@mercy.example", "correct horse", auth.RolePhysician)
	admin := &auth.Identity{UserID: uuid.New(), TenantID: f.tenant.ID, Role: auth.RoleTenantAdmin}

	got, err := f.svc.DeactivateUser(context.Background(), admin, u.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if got.Active {
		t.Error("user should be inactive")
	}
	if _, err := f.svc.Login(context.Background(), "doctor@mercy.example", "correct horse", "mercy-hospital"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login after deactivation: err = %v, want ErrInvalidCredentials", err)
	}
}
