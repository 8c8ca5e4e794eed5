package tenant

import (
	"context"
	"errors"
	"testing"

	"videosaas-backend/internal/domain/users"
)

type mockUserLoader struct {
	findByIDFn func(ctx context.Context, id uint) (*users.User, error)
}

func (m *mockUserLoader) FindByID(ctx context.Context, id uint) (*users.User, error) {
	return m.findByIDFn(ctx, id)
}

func TestResolve_DerivesTenantFromUserRow(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id uint) (*users.User, error) {
			return &users.User{ID: id, Email: "owner@example.com", TenantID: "T001"}, nil
		},
	}
	r := NewResolver(loader)

	tc, err := r.Resolve(context.Background(), 42)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tc.TenantID != "T001" {
		t.Errorf("TenantID = %q, want T001", tc.TenantID)
	}
	if tc.User == nil || tc.User.ID != 42 {
		t.Error("resolved context should carry the user row")
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id uint) (*users.User, error) {
			return nil, nil
		},
	}
	r := NewResolver(loader)

	if _, err := r.Resolve(context.Background(), 42); !errors.Is(err, ErrNoTenant) {
		t.Fatalf("err = %v, want ErrNoTenant", err)
	}
}

func TestResolve_ZeroUserID(t *testing.T) {
	r := NewResolver(&mockUserLoader{})

	if _, err := r.Resolve(context.Background(), 0); !errors.Is(err, ErrNoTenant) {
		t.Fatalf("err = %v, want ErrNoTenant", err)
	}
}

func TestResolve_MissingTenantID(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id uint) (*users.User, error) {
			return &users.User{ID: id, Email: "owner@example.com"}, nil
		},
	}
	r := NewResolver(loader)

	if _, err := r.Resolve(context.Background(), 42); !errors.Is(err, ErrNoTenant) {
		t.Fatalf("err = %v, want ErrNoTenant", err)
	}
}

func TestResolve_LoaderFailure(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id uint) (*users.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	r := NewResolver(loader)

	_, err := r.Resolve(context.Background(), 42)
	if err == nil || errors.Is(err, ErrNoTenant) {
		t.Fatalf("store failure should surface as a distinct error, got %v", err)
	}
}
