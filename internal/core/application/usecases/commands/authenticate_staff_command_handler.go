package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"
)

// AuthenticateStaffResult is a successful login.
type AuthenticateStaffResult struct {
	Token     string
	ExpiresAt time.Time
	Member    *staff.Member
}

// AuthenticateStaffCommandHandler exchanges staff credentials for a bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
type AuthenticateStaffCommandHandler struct {
	uowFactory StaffUoWFactory
	hasher     ports.PasswordHasher
	issuer     ports.TokenIssuer
	logger     *slog.Logger
}

// NewAuthenticateStaffCommandHandler creates a login handler.
func NewAuthenticateStaffCommandHandler(
	uowFactory StaffUoWFactory,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	logger *slog.Logger,
) AuthenticateStaffCommandHandler {
	return AuthenticateStaffCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		issuer:     issuer,
		logger:     logger.With("component", "authenticate_staff_handler"),
	}
}

// Handle verifies the credentials and issues a token.
// Returns CredentialsAreInvalidError on any credential mismatch.
func (h *AuthenticateStaffCommandHandler) Handle(
	ctx context.Context,
	cmd AuthenticateStaffCommand,
) (AuthenticateStaffResult, error) {
	if err := cmd.Validate(); err != nil {
		return AuthenticateStaffResult{}, err
	}

	member, err := h.uowFactory.Create().StaffRepository().GetByUsername(ctx, cmd.Username())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.InfoContext(ctx, "login rejected", "username", cmd.Username(), "reason", "unknown user")
			return AuthenticateStaffResult{}, errs.NewCredentialsAreInvalidError(nil)
		}
		return AuthenticateStaffResult{}, err
	}

	if err = h.hasher.Compare(member.PasswordHash(), cmd.Password()); err != nil {
		h.logger.InfoContext(ctx, "login rejected", "username", cmd.Username(), "reason", "password mismatch")
		return AuthenticateStaffResult{}, err
	}

	token, expiresAt, err := h.issuer.Issue(member)
	if err != nil {
		return AuthenticateStaffResult{}, err
	}

	h.logger.InfoContext(ctx, "staff logged in", "staff_id", member.ID().String())
	return AuthenticateStaffResult{Token: token, ExpiresAt: expiresAt, Member: member}, nil
}
