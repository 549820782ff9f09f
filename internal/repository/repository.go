// Package repository maps entities to their tables and runs specification
// queries, scanning rows into transfer structs by their db tags.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
)

// ErrNotFound is returned when a lookup by id or specification matches no row.
var ErrNotFound = errors.New("record not found")

// Specification produces a query.
type Specification interface {
	Query() (query.Query, error)
}

// Repository reads and writes one entity table.
type Repository[E model.Entity] struct {
	q   sqlx.ExtContext
	log *zap.Logger
}

// New returns a repository bound to q, which is either *sqlx.DB or *sqlx.Tx.
func New[E model.Entity](q sqlx.ExtContext, log *zap.Logger) *Repository[E] {
	return &Repository[E]{q: q, log: log}
}

// With returns a copy of the repository bound to q, usually a transaction.
func (r *Repository[E]) With(q sqlx.ExtContext) *Repository[E] {
	return &Repository[E]{q: q, log: r.log}
}

// TableName returns the entity's table.
func (r *Repository[E]) TableName() string {
	var e E
	return e.TableName()
}

// FirstIDOrDefault returns the lowest id whose Name equals name, or 0.
func (r *Repository[E]) FirstIDOrDefault(ctx context.Context, name string) (int64, error) {
	q, err := query.New().
		Select("Id").
		From(r.TableName()).
		Where("Name", query.OpEq, name).
		OrderBy("Id", true).
		Limit(1).
		Build()
	if err != nil {
		return 0, err
	}
	return scalar[int64](ctx, r, q)
}

// Find loads the entity with the given id.
func (r *Repository[E]) Find(ctx context.Context, id int64) (E, error) {
	var e E
	q, err := query.New().From(r.TableName()).Where("Id", query.OpEq, id).Build()
	if err != nil {
		return e, err
	}
	sqlStr, args, err := r.prepare(q)
	if err != nil {
		return e, err
	}
	if err := sqlx.GetContext(ctx, r.q, &e, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, fmt.Errorf("%s %d: %w", r.TableName(), id, ErrNotFound)
		}
		return e, fmt.Errorf("find %s %d: %w", r.TableName(), id, err)
	}
	return e, nil
}

// FindAll loads the entities with the given ids, ordered by id. Unknown ids are skipped.
func (r *Repository[E]) FindAll(ctx context.Context, ids []int64) ([]E, error) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q, err := query.New().From(r.TableName()).WhereIn("Id", args...).OrderBy("Id", true).Build()
	if err != nil {
		return nil, err
	}
	return selectQuery[E](ctx, r, q)
}

// List loads every row of the table ordered by id.
func (r *Repository[E]) List(ctx context.Context) ([]E, error) {
	q, err := query.New().From(r.TableName()).OrderBy("Id", true).Build()
	if err != nil {
		return nil, err
	}
	return selectQuery[E](ctx, r, q)
}

// Names lists id and name pairs for tables with a Name column.
func (r *Repository[E]) Names(ctx context.Context) ([]model.IDName, error) {
	q, err := query.New().Select("Id", "Name").From(r.TableName()).OrderBy("Name", true).Build()
	if err != nil {
		return nil, err
	}
	return selectQuery[model.IDName](ctx, r, q)
}

// Add inserts e and returns the new id.
func (r *Repository[E]) Add(ctx context.Context, e E) (int64, error) {
	sqlStr, args, err := sq.Insert(e.TableName()).SetMap(e.Columns()).PlaceholderFormat(r.placeholder()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", e.TableName(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", e.TableName(), err)
	}
	r.log.Debug("inserted", zap.String("table", e.TableName()), zap.Int64("id", id))
	return id, nil
}

// Update writes every column of e and returns the number of affected rows.
func (r *Repository[E]) Update(ctx context.Context, e E) (int64, error) {
	sqlStr, args, err := sq.Update(e.TableName()).
		SetMap(e.Columns()).
		Where(sq.Eq{"Id": e.PrimaryKey()}).
		PlaceholderFormat(r.placeholder()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}
	res, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s %d: %w", e.TableName(), e.PrimaryKey(), err)
	}
	return res.RowsAffected()
}

// Save inserts e when it has no id yet and updates it otherwise. It returns the row id.
func (r *Repository[E]) Save(ctx context.Context, e E) (int64, error) {
	if e.PrimaryKey() == 0 {
		return r.Add(ctx, e)
	}
	n, err := r.Update(ctx, e)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s %d: %w", e.TableName(), e.PrimaryKey(), ErrNotFound)
	}
	return e.PrimaryKey(), nil
}

// SetColumn writes value into column for every row whose id is in ids and
// returns the number of affected rows.
func (r *Repository[E]) SetColumn(ctx context.Context, ids []int64, column string, value any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sqlStr, args, err := sq.Update(r.TableName()).
		Set(column, value).
		Where(sq.Eq{"Id": ids}).
		PlaceholderFormat(r.placeholder()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}
	res, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s.%s: %w", r.TableName(), column, err)
	}
	return res.RowsAffected()
}

// Delete removes the row with the given id and returns the number of affected rows.
func (r *Repository[E]) Delete(ctx context.Context, id int64) (int64, error) {
	sqlStr, args, err := sq.Delete(r.TableName()).Where(sq.Eq{"Id": id}).PlaceholderFormat(r.placeholder()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	res, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s %d: %w", r.TableName(), id, err)
	}
	return res.RowsAffected()
}

// Select runs spec and scans every row into T.
func Select[T any, E model.Entity](ctx context.Context, r *Repository[E], spec Specification) ([]T, error) {
	q, err := spec.Query()
	if err != nil {
		return nil, err
	}
	return selectQuery[T](ctx, r, q)
}

// First runs spec and scans the first row into T.
func First[T any, E model.Entity](ctx context.Context, r *Repository[E], spec Specification) (T, error) {
	var dest T
	q, err := spec.Query()
	if err != nil {
		return dest, err
	}
	sqlStr, args, err := r.prepare(q)
	if err != nil {
		return dest, err
	}
	if err := sqlx.GetContext(ctx, r.q, &dest, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dest, ErrNotFound
		}
		return dest, fmt.Errorf("query %s: %w", r.TableName(), err)
	}
	return dest, nil
}

// Scalar runs spec and returns its single value, or the zero value when the
// query yields no row or NULL.
func Scalar[T any, E model.Entity](ctx context.Context, r *Repository[E], spec Specification) (T, error) {
	q, err := spec.Query()
	if err != nil {
		var zero T
		return zero, err
	}
	return scalar[T](ctx, r, q)
}

// Count returns the number of rows spec would produce.
func Count[E model.Entity](ctx context.Context, r *Repository[E], spec Specification) (int64, error) {
	q, err := spec.Query()
	if err != nil {
		return 0, err
	}
	count, err := q.Count()
	if err != nil {
		return 0, err
	}
	return scalar[int64](ctx, r, count)
}

func selectQuery[T any, E model.Entity](ctx context.Context, r *Repository[E], q query.Query) ([]T, error) {
	sqlStr, args, err := r.prepare(q)
	if err != nil {
		return nil, err
	}
	var dest []T
	if err := sqlx.SelectContext(ctx, r.q, &dest, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", r.TableName(), err)
	}
	return dest, nil
}

func scalar[T any, E model.Entity](ctx context.Context, r *Repository[E], q query.Query) (T, error) {
	var (
		zero T
		dest *T
	)
	sqlStr, args, err := r.prepare(q)
	if err != nil {
		return zero, err
	}
	if err := sqlx.GetContext(ctx, r.q, &dest, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, nil
		}
		return zero, fmt.Errorf("query %s: %w", r.TableName(), err)
	}
	if dest == nil {
		return zero, nil
	}
	return *dest, nil
}

// placeholder returns the squirrel placeholder format of the bound driver.
func (r *Repository[E]) placeholder() sq.PlaceholderFormat {
	switch sqlx.BindType(r.q.DriverName()) {
	case sqlx.DOLLAR:
		return sq.Dollar
	case sqlx.AT:
		return sq.AtP
	default:
		return sq.Question
	}
}

// prepare renders q for the bound driver and logs it.
func (r *Repository[E]) prepare(q query.Query) (string, []any, error) {
	bound, err := q.Rebind(r.placeholder())
	if err != nil {
		return "", nil, err
	}
	r.log.Debug("query", zap.String("table", r.TableName()), zap.String("sql", bound.SQL()), zap.Any("args", bound.Args()))
	return bound.SQL(), bound.Args(), nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func WithTx(ctx context.Context, conn *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
