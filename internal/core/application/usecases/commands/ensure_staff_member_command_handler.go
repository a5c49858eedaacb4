package commands

import (
	"context"
	"errors"
	"log/slog"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"
)

// EnsureStaffMemberCommandHandler creates a staff account unless the username is taken.
type EnsureStaffMemberCommandHandler struct {
	uowFactory StaffUoWFactory
	hasher     ports.PasswordHasher
	logger     *slog.Logger
}

func NewEnsureStaffMemberCommandHandler(
	uowFactory StaffUoWFactory,
	hasher ports.PasswordHasher,
	logger *slog.Logger,
) EnsureStaffMemberCommandHandler {
	return EnsureStaffMemberCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		logger:     logger.With("component", "ensure_staff_member_handler"),
	}
}

// Handle returns the existing member, or the newly created one with created set.
// The password of an existing member is never changed.
func (h *EnsureStaffMemberCommandHandler) Handle(
	ctx context.Context,
	cmd EnsureStaffMemberCommand,
) (member *staff.Member, created bool, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.StaffRepository()
	existing, err := repo.GetByUsername(ctx, cmd.Username())
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, false, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return nil, false, err
	}

	member, err = staff.NewMember(kernel.NewUUID(), cmd.Username(), hash, cmd.Role())
	if err != nil {
		return nil, false, err
	}

	if err = repo.Add(ctx, member); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	h.logger.InfoContext(ctx, "staff member provisioned", "staff_id", member.ID().String(), "username", member.Username())
	return member, true, nil
}
