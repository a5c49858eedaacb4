package staff

import (
	"errors"
	"strings"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

// DefaultRole is assigned when a member is created without one.
const DefaultRole = "admin"

const maxUsernameLength = 64

var ErrMemberIsNotConstructed = errors.New("staff member must be created via NewMember")

// Member is a staff account allowed to read and advance orders.
// The password is only ever held as a hash.
type Member struct {
	id           kernel.UUID
	username     string
	passwordHash string
	role         string

	guard guard.ConstructorGuard
}

// NewMember validates and creates a Member. Usernames are case-insensitive and
// stored lower-cased.
func NewMember(id kernel.UUID, username, passwordHash, role string) (*Member, error) {
	m := &Member{
		id:           id,
		username:     NormalizeUsername(username),
		passwordHash: passwordHash,
		role:         strings.TrimSpace(role),
		guard:        guard.NewConstructorGuard(),
	}
	if m.role == "" {
		m.role = DefaultRole
	}

	var usernameErr error
	switch {
	case m.username == "":
		usernameErr = errs.NewValueIsRequiredError("username")
	case len(m.username) > maxUsernameLength:
		usernameErr = errs.NewValueIsOutOfRangeError("username length", len(m.username), 1, maxUsernameLength)
	}

	var hashErr error
	if passwordHash == "" {
		hashErr = errs.NewValueIsRequiredError("passwordHash")
	}

	if err := errors.Join(id.Validate(), usernameErr, hashErr); err != nil {
		return nil, err
	}
	return m, nil
}

// NormalizeUsername returns the canonical form used for lookups.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (m *Member) Validate() error {
	if m == nil {
		return ErrMemberIsNotConstructed
	}
	return m.guard.Validate(ErrMemberIsNotConstructed)
}

func (m *Member) ID() kernel.UUID      { return m.id }
func (m *Member) Username() string     { return m.username }
func (m *Member) PasswordHash() string { return m.passwordHash }
func (m *Member) Role() string         { return m.role }
