package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"videosaas-backend/internal/domain/settings"
	"videosaas-backend/internal/domain/users"

	"github.com/google/uuid"
)

// ErrEmailExists is returned by UserStore.Create when another row already
// holds the email. The reconciler treats it as a benign race, not a
// failure.
var ErrEmailExists = errors.New("email already registered")

// ErrReconciliationFailed wraps transient store failures; the whole
// reconciliation is safe to retry.
var ErrReconciliationFailed = errors.New("reconciliation failed")

// UserStore is the slice of user persistence the reconciler needs.
// FindByEmail returns (nil, nil) when no row matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	Create(ctx context.Context, user *users.User) error
	LinkGoogle(ctx context.Context, userID uint, googleID string) error
}

// SettingsStore creates the default settings row for a new user.
type SettingsStore interface {
	Create(ctx context.Context, s *settings.UserSettings) error
}

// Metrics is the optional outcome counter hook.
type Metrics interface {
	RecordReconciliation(outcome string)
}

// Reconciliation outcomes reported to Metrics.
const (
	OutcomeCreated = "created"
	OutcomeLinked  = "linked"
	OutcomeNoop    = "noop"
)

// Reconciler maps an external identity to exactly one user row, creating
// or linking as needed. Re-running with the same email converges to the
// same end state.
type Reconciler struct {
	users     UserStore
	settings  SettingsStore
	normalize EmailNormalizer
	metrics   Metrics
}

func NewReconciler(userStore UserStore, settingsStore SettingsStore, normalize EmailNormalizer) *Reconciler {
	if normalize == nil {
		normalize = ExactEmail
	}
	return &Reconciler{
		users:     userStore,
		settings:  settingsStore,
		normalize: normalize,
	}
}

// WithMetrics attaches an outcome counter.
func (r *Reconciler) WithMetrics(m Metrics) *Reconciler {
	r.metrics = m
	return r
}

func (r *Reconciler) record(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordReconciliation(outcome)
	}
}

// Reconcile looks the identity up by email and creates, links, or no-ops.
// The returned user is freshly loaded so the caller observes committed
// state.
func (r *Reconciler) Reconcile(ctx context.Context, identity ExternalIdentity) (*users.User, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	email := r.normalize(identity.Email)

	existing, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup by email: %v", ErrReconciliationFailed, err)
	}

	if existing == nil {
		created, err := r.create(ctx, identity, email)
		if err != nil {
			return nil, err
		}
		if created != nil {
			return created, nil
		}
		// Lost the create race: the row exists now, fall through to the
		// link/no-op path on a fresh lookup.
		existing, err = r.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup after create race: %v", ErrReconciliationFailed, err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: email taken but row not found", ErrReconciliationFailed)
		}
	}

	if identity.Provider == users.ProviderGoogle && existing.AuthProvider == users.ProviderEmail {
		if err := r.users.LinkGoogle(ctx, existing.ID, identity.SubjectID); err != nil {
			return nil, fmt.Errorf("%w: link google account: %v", ErrReconciliationFailed, err)
		}
		r.record(OutcomeLinked)
		slog.Info("linked google account",
			slog.Uint64("user_id", uint64(existing.ID)),
			slog.String("tenant_id", existing.TenantID),
		)
	} else {
		r.record(OutcomeNoop)
	}

	// Matching provider (or already linked): nothing to change. Name and
	// avatar of an existing row are never overwritten here.
	final, err := r.users.FindByEmail(ctx, email)
	if err != nil || final == nil {
		return nil, fmt.Errorf("%w: reload user: %v", ErrReconciliationFailed, err)
	}
	return final, nil
}

// create inserts a user on a fresh tenant. Returns (nil, nil) when the
// email was taken concurrently.
func (r *Reconciler) create(ctx context.Context, identity ExternalIdentity, email string) (*users.User, error) {
	user := &users.User{
		Email:         email,
		Name:          identity.Name,
		Avatar:        identity.Avatar,
		TenantID:      uuid.NewString(),
		AuthProvider:  identity.Provider,
		EmailVerified: identity.Verified,
	}
	if identity.Provider == users.ProviderGoogle {
		sub := identity.SubjectID
		user.GoogleID = &sub
	}

	if err := r.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrReconciliationFailed, err)
	}

	// Settings creation is best-effort: a failure here must not fail the
	// sign-up that just succeeded.
	defaults := settings.Defaults(user.ID, user.TenantID)
	if err := r.settings.Create(ctx, &defaults); err != nil {
		slog.Warn("failed to create default settings",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}

	r.record(OutcomeCreated)
	slog.Info("created user",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("tenant_id", user.TenantID),
		slog.String("provider", user.AuthProvider),
	)
	return user, nil
}
