package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"listing_console/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Repo mirrors master lists. Each upsert replaces the whole list of one
// level or kind in a single transaction.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHierarchy(ctx context.Context, level domain.Level, es []domain.HierarchyEntity) error {
	values := make([]string, 0, len(es))
	args := make([]any, 0, len(es)*7)
	ids := make([]any, 0, len(es))
	for i, e := range es {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args, int(level), e.ID, valStr(e.ParentID), e.Name.EN, e.Name.VI, e.Status, i)
		ids = append(ids, e.ID)
	}
	return r.replace(ctx,
		insertHierarchyPrefix, insertHierarchyOnDup, values, args,
		deleteHierarchyPrefix, int(level), ids)
}

func (r *Repo) UpsertOptions(ctx context.Context, kind domain.MasterKind, os []domain.Option) error {
	values := make([]string, 0, len(os))
	args := make([]any, 0, len(os)*7)
	ids := make([]any, 0, len(os))
	for i, o := range os {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args, string(kind), o.ID, o.Code, o.Name.EN, o.Name.VI, o.Status, i)
		ids = append(ids, o.ID)
	}
	return r.replace(ctx,
		insertOptionsPrefix, insertOptionsOnDup, values, args,
		deleteOptionsPrefix, string(kind), ids)
}

func (r *Repo) replace(ctx context.Context,
	insPrefix, insOnDup string, values []string, args []any,
	delPrefix string, scope any, ids []any,
) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(values) > 0 {
		if _, err = tx.ExecContext(ctx, insPrefix+strings.Join(values, ",")+insOnDup, args...); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
	}

	del := delPrefix
	delArgs := []any{scope}
	if len(ids) > 0 {
		del += " AND id NOT IN (" + placeholders(len(ids)) + ")"
		delArgs = append(delArgs, ids...)
	}
	if _, err = tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	return tx.Commit()
}

func (r *Repo) LogMiss(ctx context.Context, kind domain.MasterKind, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, string(kind), status, reason)
	return err
}

func (r *Repo) ListHierarchy(ctx context.Context, level domain.Level) ([]domain.HierarchyEntity, error) {
	rows, err := r.db.QueryContext(ctx, listHierarchySQL, int(level))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HierarchyEntity{}
	for rows.Next() {
		var e domain.HierarchyEntity
		var parent sql.NullString
		if err := rows.Scan(&e.ID, &parent, &e.Name.EN, &e.Name.VI, &e.Status); err != nil {
			return nil, err
		}
		e.ParentID = parent.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) ListOptions(ctx context.Context, kind domain.MasterKind) ([]domain.Option, error) {
	rows, err := r.db.QueryContext(ctx, listOptionsSQL, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Option{}
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.Code, &o.Name.EN, &o.Name.VI, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
