package staffrepo

import (
	"context"

	"qrcafe/internal/adapters/out/postgres/dberr"
	"qrcafe/internal/core/domain/model/staff"

	"gorm.io/gorm"
)

const storeName = "staff store"

// GormStaffRepository implements ports.StaffRepository using GORM.
type GormStaffRepository struct {
	db *gorm.DB
}

func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// Add inserts a member; a taken username yields ObjectAlreadyExistsError.
func (r *GormStaffRepository) Add(ctx context.Context, member *staff.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	dto := fromDomain(member)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return dberr.Translate(err, storeName, "staff member", member.Username())
}

// GetByUsername looks a member up by normalized username.
func (r *GormStaffRepository) GetByUsername(ctx context.Context, username string) (*staff.Member, error) {
	username = staff.NormalizeUsername(username)

	var dto StaffMemberDTO
	if err := r.db.WithContext(ctx).First(&dto, "username = ?", username).Error; err != nil {
		return nil, dberr.Translate(err, storeName, "staff member", username)
	}
	return toDomain(dto)
}
