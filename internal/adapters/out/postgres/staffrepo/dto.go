// Package staffrepo persists staff accounts.
package staffrepo

import (
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/staff"

	"github.com/google/uuid"
)

// StaffMemberDTO is the staff_members row.
type StaffMemberDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	Role         string    `gorm:"type:varchar(32);not null;default:admin"`
}

func (StaffMemberDTO) TableName() string {
	return "staff_members"
}

func fromDomain(member *staff.Member) StaffMemberDTO {
	return StaffMemberDTO{
		ID:           member.ID().Bytes(),
		Username:     member.Username(),
		PasswordHash: member.PasswordHash(),
		Role:         member.Role(),
	}
}

func toDomain(dto StaffMemberDTO) (*staff.Member, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return staff.NewMember(id, dto.Username, dto.PasswordHash, dto.Role)
}
