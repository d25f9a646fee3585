package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/tracker"
	"github.com/uptrace/bun"
)

type RetrieveSessionOptions struct {
	ID     *string
	UserID *int

	IncludeBook bool
}

type ListSessionsOptions struct {
	Limit  *int
	Offset *int
	UserID *int
	BookID *string

	includeTotal bool
}

type UpdateSessionOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func validateSession(session *models.ReadingSession) error {
	if session.PagesRead <= 0 {
		return errcodes.ValidationError(`"pages_read" must be greater than 0`)
	}
	if !session.EndedAt.After(session.StartedAt) {
		return errcodes.ValidationError(`"ended_at" must be after "started_at"`)
	}
	if session.Duration() > models.MaxSessionDuration {
		return errcodes.ValidationError("A session can't span more than 24 hours.")
	}
	return nil
}

// CreateSession logs a session against the book and rederives the book's
// status in the same transaction. It reports whether the book just crossed
// into completed.
func (svc *Service) CreateSession(ctx context.Context, session *models.ReadingSession) (bool, error) {
	if err := validateSession(session); err != nil {
		return false, err
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = session.CreatedAt

	if session.ID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return false, errors.WithStack(err)
		}
		session.ID = id.String()
	}

	var newlyCompleted bool
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(session).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		newlyCompleted, err = recomputeBook(ctx, tx, session.BookID)
		return err
	})
	if err != nil {
		return false, errors.WithStack(err)
	}

	return newlyCompleted, nil
}

func (svc *Service) RetrieveSession(ctx context.Context, opts RetrieveSessionOptions) (*models.ReadingSession, error) {
	session := &models.ReadingSession{}

	q := svc.db.
		NewSelect().
		Model(session)

	if opts.IncludeBook {
		q = q.Relation("Book")
	}

	if opts.ID != nil {
		q = q.Where("rs.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("rs.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reading session")
		}
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func (svc *Service) ListSessions(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, error) {
	s, _, err := svc.listSessionsWithTotal(ctx, opts)
	return s, errors.WithStack(err)
}

func (svc *Service) ListSessionsWithTotal(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, int, error) {
	opts.includeTotal = true
	return svc.listSessionsWithTotal(ctx, opts)
}

func (svc *Service) listSessionsWithTotal(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, int, error) {
	sessions := []*models.ReadingSession{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&sessions).
		Order("rs.started_at DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.UserID != nil {
		q = q.Where("rs.user_id = ?", *opts.UserID)
	}
	if opts.BookID != nil {
		q = q.Where("rs.book_id = ?", *opts.BookID)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return sessions, total, nil
}

// UpdateSession persists the given columns and rederives the book's status.
func (svc *Service) UpdateSession(ctx context.Context, session *models.ReadingSession, opts UpdateSessionOptions) (bool, error) {
	if len(opts.Columns) == 0 {
		return false, nil
	}

	if err := validateSession(session); err != nil {
		return false, err
	}

	var newlyCompleted bool
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		session.UpdatedAt = now
		columns := append(opts.Columns, "updated_at")

		_, err := tx.
			NewUpdate().
			Model(session).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Reading session")
			}
			return errors.WithStack(err)
		}

		newlyCompleted, err = recomputeBook(ctx, tx, session.BookID)
		return err
	})
	if err != nil {
		return false, errors.WithStack(err)
	}

	return newlyCompleted, nil
}

// DeleteSession removes a session and rederives the book's status, which can
// move a book back out of currently reading.
func (svc *Service) DeleteSession(ctx context.Context, session *models.ReadingSession) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewDelete().
			Model(session).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = recomputeBook(ctx, tx, session.BookID)
		return err
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func recomputeBook(ctx context.Context, tx bun.Tx, bookID string) (bool, error) {
	book := &models.Book{}
	err := tx.
		NewSelect().
		Model(book).
		Where("b.id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, errcodes.NotFound("Book")
		}
		return false, errors.WithStack(err)
	}

	sessions := []*models.ReadingSession{}
	err = tx.
		NewSelect().
		Model(&sessions).
		Where("rs.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	previous := book.Status
	_, newlyCompleted := tracker.RecomputeBook(book, sessions)

	if book.Status != previous {
		book.UpdatedAt = time.Now()
		_, err = tx.
			NewUpdate().
			Model(book).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
	}

	return newlyCompleted, nil
}
