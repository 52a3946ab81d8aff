package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"
)

// Reader loads the whole books table back into memory
type Reader struct {
	open      Opener
	namespace Namespace
	log       *logger.Logger
}

// NewReader creates a reader that acquires sessions through open
func NewReader(open Opener, namespace Namespace) *Reader {
	return &Reader{
		open:      open,
		namespace: namespace,
		log:       logger.ForWarehouse(),
	}
}

// ReadAll returns every row of the table in warehouse order
func (r *Reader) ReadAll(ctx context.Context) (books []catalog.Book, err error) {
	session, err := r.open(ctx, r.namespace.Target())
	if err != nil {
		return nil, errors.NewQuery(stage, "open session", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Msg("Failed to close warehouse session")
		}
	}()

	rows, err := session.QueryContext(ctx, SelectAll(r.namespace.Table))
	if err != nil {
		return nil, errors.NewQuery(stage, "select", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.NewQuery(stage, "columns", err)
	}
	if len(cols) != len(Columns) {
		return nil, errors.NewQuery(stage, fmt.Sprintf("expected %d columns, got %d", len(Columns), len(cols)), nil)
	}

	books = []catalog.Book{}
	for rows.Next() {
		book, err := scanBook(rows, len(books)+1)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQuery(stage, "iterate rows", err)
	}

	r.log.Debug().
		Int("rows", len(books)).
		Str("table", r.namespace.Table).
		Msg("Read table")
	return books, nil
}

func scanBook(rows *sql.Rows, n int) (catalog.Book, error) {
	var (
		title        sql.NullString
		rating       sql.NullInt64
		price        sql.NullFloat64
		availability sql.NullBool
	)
	if err := rows.Scan(&title, &rating, &price, &availability); err != nil {
		return catalog.Book{}, errors.NewQuery(stage, fmt.Sprintf("scan row %d", n), err)
	}
	if !title.Valid || !rating.Valid || !price.Valid || !availability.Valid {
		return catalog.Book{}, errors.NewQuery(stage, fmt.Sprintf("row %d has NULL columns", n), nil)
	}

	return catalog.Book{
		Title:        title.String,
		Rating:       int(rating.Int64),
		Price:        price.Float64,
		Availability: availability.Bool,
	}, nil
}
