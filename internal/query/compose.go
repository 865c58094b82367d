package query

import (
	"fmt"
	"strings"

	"github.com/zentaolab/zentao-mcp/internal/schema"
)

// compose builds the SQL statement and argument list for one entity
// query. The shape is fixed per entity kind: filters only ever add
// predicates, never joins, with two exceptions spelled out below.
//
//   - Bug queries always carry the full seven-way LEFT JOIN (product,
//     project, module, and one zt_user alias per person-reference
//     field), whether or not any filter is active. Every leg is
//     many-to-one, so the row count always equals the base table's;
//     the projector relies on this and does no deduplication. A future
//     many-valued join must add an explicit grouping step instead.
//   - A project query with a product filter INNER JOINs the
//     association table: a project without a product link is not "by
//     product".
//
// Soft-deleted base rows are excluded unconditionally. An unknown
// entity kind is a programming error and panics.
func compose(kind schema.EntityKind, f FilterSet) (string, []any) {
	f = f.normalized()
	switch kind {
	case schema.Product:
		return composeProducts(f)
	case schema.Project:
		return composeProjects(f)
	case schema.Bug:
		return composeBugs(f)
	case schema.Module:
		return composeModules(f)
	case schema.User:
		return composeUsers(f)
	default:
		panic(fmt.Sprintf("query: compose: unknown entity kind %d", int(kind)))
	}
}

// personPredicate returns the OR-across-roles predicate for the entity:
// a person filter means "this person touched the record in any role",
// not "in a specific role".
func personPredicate(kind schema.EntityKind, alias, account string) (string, []any) {
	fields := schema.PersonFields(kind)
	parts := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, col := range fields {
		parts[i] = fmt.Sprintf("%s.%s = ?", alias, col)
		args[i] = account
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func composeProducts(f FilterSet) (string, []any) {
	where := []string{schema.NotDeleted}
	var args []any
	if f.PersonKey != "" {
		pred, pargs := personPredicate(schema.Product, "zt_product", f.PersonKey)
		where = append(where, pred)
		args = append(args, pargs...)
	}
	q := fmt.Sprintf(`
		SELECT id, name, code, PO, QD, createdBy, createdDate
		FROM zt_product
		WHERE %s
		ORDER BY id
		LIMIT ?`, strings.Join(where, " AND "))
	return q, append(args, f.Limit)
}

func composeProjects(f FilterSet) (string, []any) {
	join := ""
	where := []string{"p." + schema.NotDeleted}
	var args []any

	if f.ProductID != nil {
		join = "INNER JOIN zt_projectproduct pp ON p.id = pp.project"
		where = append(where, "pp.product = ?")
		args = append(args, *f.ProductID)
	}
	if f.ProjectID != nil {
		where = append(where, "p.id = ?")
		args = append(args, *f.ProjectID)
	}
	if f.Status != "" {
		where = append(where, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.PersonKey != "" {
		pred, pargs := personPredicate(schema.Project, "p", f.PersonKey)
		where = append(where, pred)
		args = append(args, pargs...)
	}

	// begin/end are SQL keywords; ANSI quoting keeps SQLite happy.
	q := fmt.Sprintf(`
		SELECT DISTINCT p.id, p.name, p.code, p."begin", p."end", p.status, p.PO, p.PM, p.QD
		FROM zt_project p
		%s
		WHERE %s
		ORDER BY p.id
		LIMIT ?`, join, strings.Join(where, " AND "))
	return q, append(args, f.Limit)
}

func composeBugs(f FilterSet) (string, []any) {
	where := []string{"b." + schema.NotDeleted}
	var args []any

	if f.ProductID != nil {
		where = append(where, "b.product = ?")
		args = append(args, *f.ProductID)
	}
	if f.ProjectID != nil {
		where = append(where, "b.project = ?")
		args = append(args, *f.ProjectID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.PersonKey != "" {
		pred, pargs := personPredicate(schema.Bug, "b", f.PersonKey)
		where = append(where, pred)
		args = append(args, pargs...)
	}

	// A bug's product/project/module references may be 0; the joins
	// stay outer so such bugs are never dropped, they just project
	// null labels.
	q := fmt.Sprintf(`
		SELECT
			b.id, b.product, b.project, b.module, b.title, b.severity, b.pri,
			b.steps, b.status,
			b.openedBy, b.openedDate, b.assignedTo, b.assignedDate,
			b.resolvedBy, b.resolvedDate, b.closedBy, b.closedDate,
			p.name, proj.name, m.name,
			u_opened.realname, u_assigned.realname, u_resolved.realname, u_closed.realname
		FROM zt_bug b
		LEFT JOIN zt_product p ON b.product = p.id
		LEFT JOIN zt_project proj ON b.project = proj.id
		LEFT JOIN zt_module m ON b.module = m.id
		LEFT JOIN zt_user u_opened ON b.openedBy = u_opened.account
		LEFT JOIN zt_user u_assigned ON b.assignedTo = u_assigned.account
		LEFT JOIN zt_user u_resolved ON b.resolvedBy = u_resolved.account
		LEFT JOIN zt_user u_closed ON b.closedBy = u_closed.account
		WHERE %s
		ORDER BY b.id
		LIMIT ?`, strings.Join(where, " AND "))
	return q, append(args, f.Limit)
}

func composeModules(f FilterSet) (string, []any) {
	where := []string{schema.NotDeleted}
	var args []any
	if f.ProductID != nil {
		where = append(where, "root = ?")
		args = append(args, *f.ProductID)
	}
	q := fmt.Sprintf(`
		SELECT id, name, root
		FROM zt_module
		WHERE %s
		ORDER BY id
		LIMIT ?`, strings.Join(where, " AND "))
	return q, append(args, f.Limit)
}

func composeUsers(f FilterSet) (string, []any) {
	// Accounts are opaque keys, so identity ordering here means the
	// account itself; it is just as deterministic.
	q := `
		SELECT account, realname, role
		FROM zt_user
		WHERE ` + schema.NotDeleted + `
		ORDER BY account
		LIMIT ?`
	return q, []any{f.Limit}
}
