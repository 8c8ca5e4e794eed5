package account

import (
	"errors"
	"fmt"
	"strings"

	"videosaas-backend/internal/domain/users"
)

// ExternalIdentity is the normalized credential the identity provider
// adapter hands to the reconciler. It is validated at the adapter
// boundary so the reconciliation engine never sees a partial payload.
type ExternalIdentity struct {
	Provider  string // users.ProviderEmail or users.ProviderGoogle
	Email     string
	Name      string
	Avatar    *string
	SubjectID string // provider subject id, required for GOOGLE
	Verified  bool   // true for OAuth, false for email pending confirmation
}

func (id ExternalIdentity) Validate() error {
	switch id.Provider {
	case users.ProviderEmail:
	case users.ProviderGoogle:
		if id.SubjectID == "" {
			return errors.New("google identity missing subject id")
		}
	default:
		return fmt.Errorf("unsupported identity provider %q", id.Provider)
	}
	if id.Email == "" {
		return errors.New("identity missing email")
	}
	if id.Name == "" {
		return errors.New("identity missing name")
	}
	return nil
}

// EmailNormalizer maps an incoming email to its canonical lookup form.
type EmailNormalizer func(string) string

// ExactEmail keeps emails as-is; matching stays case-sensitive.
func ExactEmail(email string) string { return email }

// FoldedEmail lowercases emails before matching.
func FoldedEmail(email string) string { return strings.ToLower(email) }
