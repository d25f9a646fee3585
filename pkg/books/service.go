package books

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

type RetrieveBookOptions struct {
	ID     *string
	UserID *int

	IncludeSessions bool
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	UserID *int
	Status *models.ReadingStatus
	Genre  *string
	Search *string

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	if book.ID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		book.ID = id.String()
	}
	if book.Status == "" {
		book.Status = models.StatusToBeRead
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.IncludeSessions {
		q = q.Relation("Sessions", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("rs.started_at ASC")
		})
	}

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("b.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Sessions", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("rs.started_at ASC")
		}).
		Order("b.created_at ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.UserID != nil {
		q = q.Where("b.user_id = ?", *opts.UserID)
	}
	if opts.Status != nil {
		q = q.Where("b.status = ?", *opts.Status)
	}
	if opts.Genre != nil {
		q = q.Where("b.genre = ?", *opts.Genre)
	}
	if opts.Search != nil {
		q = q.Where("(b.title LIKE ? COLLATE NOCASE OR b.author LIKE ? COLLATE NOCASE)", "%"+*opts.Search+"%", "%"+*opts.Search+"%")
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	book.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Book")
		}
		return errors.WithStack(err)
	}

	return nil
}

// DeleteBook removes a book. Its reading sessions go with it via the foreign
// key cascade.
func (svc *Service) DeleteBook(ctx context.Context, book *models.Book) error {
	_, err := svc.db.
		NewDelete().
		Model(book).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Recompute reloads the book's sessions, rederives its status, and persists
// it when it changed. It returns the progress percentage and whether the book
// just crossed into completed.
func (svc *Service) Recompute(ctx context.Context, book *models.Book) (float64, bool, error) {
	sessions := []*models.ReadingSession{}
	err := svc.db.
		NewSelect().
		Model(&sessions).
		Where("rs.book_id = ?", book.ID).
		Scan(ctx)
	if err != nil {
		return 0, false, errors.WithStack(err)
	}

	previous := book.Status
	progress, newlyCompleted := tracker.RecomputeBook(book, sessions)

	if book.Status != previous {
		err = svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"status"}})
		if err != nil {
			return 0, false, err
		}
	}

	return progress, newlyCompleted, nil
}

// SetStatus overrides the book's status directly, bypassing derivation. Used
// for the manual complete and abandon actions.
func (svc *Service) SetStatus(ctx context.Context, book *models.Book, status models.ReadingStatus) error {
	book.Status = status
	return svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"status"}})
}

// Progress returns the current progress percentage for the book from its
// stored sessions.
func (svc *Service) Progress(ctx context.Context, book *models.Book) (float64, error) {
	var pagesRead int
	err := svc.db.
		NewSelect().
		Model((*models.ReadingSession)(nil)).
		ColumnExpr("COALESCE(SUM(pages_read), 0)").
		Where("rs.book_id = ?", book.ID).
		Scan(ctx, &pagesRead)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return tracker.Percentage(pagesRead, book.TotalPages), nil
}
