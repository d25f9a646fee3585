package goals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/tracker"
	"github.com/uptrace/bun"
)

type RetrieveGoalOptions struct {
	ID     *string
	UserID *int
}

type ListGoalsOptions struct {
	Limit  *int
	Offset *int
	UserID *int

	// ActiveOn filters to goals whose date range covers the given day.
	ActiveOn *time.Time

	includeTotal bool
}

type UpdateGoalOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func validateGoalPeriod(goal *models.ReadingGoal) error {
	if !goal.GoalType.IsValid() {
		return errcodes.ValidationError(`"goal_type" must be one of daily, weekly, monthly, or yearly`)
	}
	if models.DateOf(goal.EndDate).Before(models.DateOf(goal.StartDate)) {
		return errcodes.ValidationError(`"end_date" can't be before "start_date"`)
	}

	days := goal.PeriodDays()
	maxDays := models.GoalPeriodMaxDays[goal.GoalType]
	if goal.GoalType == models.GoalDaily && days != 1 {
		return errcodes.ValidationError("A daily goal must cover exactly one day.")
	}
	if days > maxDays {
		return errcodes.ValidationError(fmt.Sprintf("A %s goal can't span more than %d days.", goal.GoalType, maxDays))
	}

	return nil
}

func (svc *Service) CreateGoal(ctx context.Context, goal *models.ReadingGoal) error {
	if err := validateGoalPeriod(goal); err != nil {
		return err
	}

	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = goal.CreatedAt

	if goal.ID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		goal.ID = id.String()
	}

	_, err := svc.db.
		NewInsert().
		Model(goal).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveGoal(ctx context.Context, opts RetrieveGoalOptions) (*models.ReadingGoal, error) {
	goal := &models.ReadingGoal{}

	q := svc.db.
		NewSelect().
		Model(goal)

	if opts.ID != nil {
		q = q.Where("rg.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("rg.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reading goal")
		}
		return nil, errors.WithStack(err)
	}

	return goal, nil
}

func (svc *Service) ListGoals(ctx context.Context, opts ListGoalsOptions) ([]*models.ReadingGoal, error) {
	g, _, err := svc.listGoalsWithTotal(ctx, opts)
	return g, errors.WithStack(err)
}

func (svc *Service) ListGoalsWithTotal(ctx context.Context, opts ListGoalsOptions) ([]*models.ReadingGoal, int, error) {
	opts.includeTotal = true
	return svc.listGoalsWithTotal(ctx, opts)
}

func (svc *Service) listGoalsWithTotal(ctx context.Context, opts ListGoalsOptions) ([]*models.ReadingGoal, int, error) {
	goals := []*models.ReadingGoal{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&goals).
		Order("rg.created_at DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.UserID != nil {
		q = q.Where("rg.user_id = ?", *opts.UserID)
	}
	if opts.ActiveOn != nil {
		day := models.DateOf(*opts.ActiveOn)
		q = q.Where("rg.start_date <= ?", day.Add(24*time.Hour-time.Nanosecond)).
			Where("rg.end_date >= ?", day)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return goals, total, nil
}

func (svc *Service) UpdateGoal(ctx context.Context, goal *models.ReadingGoal, opts UpdateGoalOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	if err := validateGoalPeriod(goal); err != nil {
		return err
	}

	now := time.Now()
	goal.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(goal).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Reading goal")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) DeleteGoal(ctx context.Context, goal *models.ReadingGoal) error {
	_, err := svc.db.
		NewDelete().
		Model(goal).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Progress aggregates the goal's window and derives its progress numbers.
// Pages come from every session whose start falls inside the window; books
// are completed books with at least one session in the window.
func (svc *Service) Progress(ctx context.Context, goal *models.ReadingGoal, today time.Time) (*tracker.GoalProgress, error) {
	windowStart := models.DateOf(goal.StartDate)
	windowEnd := models.DateOf(goal.EndDate).AddDate(0, 0, 1)

	var pagesRead int
	err := svc.db.
		NewSelect().
		Model((*models.ReadingSession)(nil)).
		ColumnExpr("COALESCE(SUM(pages_read), 0)").
		Where("rs.user_id = ?", goal.UserID).
		Where("rs.started_at >= ?", windowStart).
		Where("rs.started_at < ?", windowEnd).
		Scan(ctx, &pagesRead)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var booksCompleted int
	err = svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("COUNT(DISTINCT b.id)").
		Join("JOIN reading_sessions AS rs ON rs.book_id = b.id").
		Where("b.user_id = ?", goal.UserID).
		Where("b.status = ?", models.StatusCompleted).
		Where("rs.started_at >= ?", windowStart).
		Where("rs.started_at < ?", windowEnd).
		Scan(ctx, &booksCompleted)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	progress := tracker.ComputeGoalProgress(goal, pagesRead, booksCompleted, today)
	return &progress, nil
}
