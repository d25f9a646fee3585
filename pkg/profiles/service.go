package profiles

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type UpdateProfileOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RetrieveProfile returns the profile belonging to the user.
func (svc *Service) RetrieveProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	profile := &models.UserProfile{}

	err := svc.db.
		NewSelect().
		Model(profile).
		Where("up.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Profile")
		}
		return nil, errors.WithStack(err)
	}

	return profile, nil
}

// RetrieveUserWithProfile looks a user up by username, profile included.
func (svc *Service) RetrieveUserWithProfile(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}

	err := svc.db.
		NewSelect().
		Model(user).
		Relation("Profile").
		Where("u.username = ? COLLATE NOCASE", username).
		Where("u.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Profile")
		}
		return nil, errors.WithStack(err)
	}
	if user.Profile == nil {
		return nil, errcodes.NotFound("Profile")
	}

	return user, nil
}

func (svc *Service) UpdateProfile(ctx context.Context, profile *models.UserProfile, opts UpdateProfileOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	profile.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(profile).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Profile")
		}
		return errors.WithStack(err)
	}

	return nil
}
