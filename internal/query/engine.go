// Package query implements the query composition and result projection
// engine: it resolves human-readable identifiers to join keys, composes
// one read-only query per request against the zt_* tables, and projects
// the joined rows into canonical records with denormalized labels.
//
// The pipeline per request is strictly sequential: at most one
// resolution lookup, then at most one composed query, then one
// projection pass. The engine holds no cross-request state; the shared
// *sql.DB is externally owned and only ever read.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zentaolab/zentao-mcp/internal/schema"
	"go.uber.org/zap"
)

// ErrNotFound reports that an exact-match lookup had no match. It is a
// first-class outcome, not a failure: callers decide whether it means
// "empty result" (person filter) or a user-visible miss (product name).
var ErrNotFound = errors.New("query: no match")

// ErrBlankName reports that a lookup was called with an empty or
// all-whitespace name. This is a caller error, distinct from ErrNotFound.
var ErrBlankName = errors.New("query: blank name")

// Engine executes composed queries against the ZenTao store.
type Engine struct {
	db  *sql.DB
	log *zap.Logger
}

// New creates an Engine over an open database handle.
func New(db *sql.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// ResolvePerson maps a display name to the zt_user account key used by
// every person-reference join. The match is exact and case-sensitive;
// ambiguity and typos are the caller's responsibility. A miss returns
// ErrNotFound, which callers must translate into an empty result set,
// never into an unfiltered query.
//
// Deliberately no soft-delete filter: a deleted user's historical bugs
// stay reachable by name.
func (e *Engine) ResolvePerson(ctx context.Context, realname string) (string, error) {
	if strings.TrimSpace(realname) == "" {
		return "", ErrBlankName
	}

	var account string
	err := e.db.QueryRowContext(ctx,
		"SELECT account FROM zt_user WHERE realname = ?", realname).Scan(&account)
	if errors.Is(err, sql.ErrNoRows) {
		e.log.Debug("person resolution miss", zap.String("realname", realname))
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve person %q: %w", realname, err)
	}
	return account, nil
}

// ResolveProduct maps a product name to its record. Structurally the
// same lookup as ResolvePerson but against zt_product, and a miss here
// is a user-visible not-found condition rather than an empty result.
func (e *Engine) ResolveProduct(ctx context.Context, name string) (*ProductRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}

	row := e.db.QueryRowContext(ctx, `
		SELECT id, name, code, PO, QD, createdBy, createdDate
		FROM zt_product
		WHERE name = ? AND `+schema.NotDeleted, name)

	var p ProductRecord
	var created sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.PO, &p.QD, &p.CreatedBy, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve product %q: %w", name, err)
	}
	p.CreatedDate = nullStr(created)
	return &p, nil
}

// Products lists non-deleted products in id order.
func (e *Engine) Products(ctx context.Context) ([]ProductRecord, error) {
	rows, err := e.run(ctx, schema.Product, FilterSet{})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return projectProducts(rows)
}

// ProjectsByProduct lists the projects linked to the given product via
// the association table, in id order. The resolved product supplies the
// product_id/product_name labels on every projected record.
func (e *Engine) ProjectsByProduct(ctx context.Context, product ProductRecord) ([]ProjectRecord, error) {
	rows, err := e.run(ctx, schema.Project, FilterSet{ProductID: &product.ID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return projectProjects(rows, &product)
}

// Bugs lists bugs matching the filter set, in id order, each projected
// with the full label set from the fixed join shape. PersonKey must be
// a resolved account; resolving realname to account is the caller's
// first pipeline step.
func (e *Engine) Bugs(ctx context.Context, f FilterSet) ([]BugRecord, error) {
	rows, err := e.run(ctx, schema.Bug, f)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return projectBugs(rows)
}

// Users lists non-deleted users in account order.
func (e *Engine) Users(ctx context.Context) ([]UserRecord, error) {
	rows, err := e.run(ctx, schema.User, FilterSet{})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return projectUsers(rows)
}

// Modules lists non-deleted modules in id order, optionally restricted
// to one owning product. A nil productID imposes no constraint.
func (e *Engine) Modules(ctx context.Context, productID *int64) ([]ModuleRecord, error) {
	rows, err := e.run(ctx, schema.Module, FilterSet{ProductID: productID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return projectModules(rows)
}

// run composes and executes the query for one entity kind. Store
// failures are wrapped with the entity being queried so the caller can
// tell which composed query broke; no retry happens at this layer.
func (e *Engine) run(ctx context.Context, kind schema.EntityKind, f FilterSet) (*sql.Rows, error) {
	q, args := compose(kind, f)
	e.log.Debug("composed query",
		zap.Stringer("entity", kind),
		zap.Int("args", len(args)),
	)
	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	return rows, nil
}
