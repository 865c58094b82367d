package query

import (
	"database/sql"
	"fmt"
)

// Projection: one scan loop per entity kind, copying base attributes
// verbatim and converting NULLs from the outer joins into nil labels.
// No deduplication happens here: compose guarantees every join leg is
// many-to-one, so the row set already has base-table cardinality.

func projectProducts(rows *sql.Rows) ([]ProductRecord, error) {
	var out []ProductRecord
	for rows.Next() {
		var p ProductRecord
		var created sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.PO, &p.QD, &p.CreatedBy, &created); err != nil {
			return nil, fmt.Errorf("project product row: %w", err)
		}
		p.CreatedDate = nullStr(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func projectProjects(rows *sql.Rows, product *ProductRecord) ([]ProjectRecord, error) {
	var out []ProjectRecord
	for rows.Next() {
		var p ProjectRecord
		var begin, end sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &begin, &end, &p.Status, &p.PO, &p.PM, &p.QD); err != nil {
			return nil, fmt.Errorf("project project row: %w", err)
		}
		p.Begin = nullStr(begin)
		p.End = nullStr(end)
		if product != nil {
			id := product.ID
			name := product.Name
			p.ProductID = &id
			p.ProductName = &name
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func projectBugs(rows *sql.Rows) ([]BugRecord, error) {
	var out []BugRecord
	for rows.Next() {
		var b BugRecord
		var product, project, module sql.NullInt64
		var openedDate, assignedDate, resolvedDate, closedDate sql.NullString
		var productName, projectName, moduleName sql.NullString
		var openedName, assignedName, resolvedName, closedName sql.NullString

		err := rows.Scan(
			&b.ID, &product, &project, &module, &b.Title, &b.Severity, &b.Pri,
			&b.Steps, &b.Status,
			&b.OpenedBy, &openedDate, &b.AssignedTo, &assignedDate,
			&b.ResolvedBy, &resolvedDate, &b.ClosedBy, &closedDate,
			&productName, &projectName, &moduleName,
			&openedName, &assignedName, &resolvedName, &closedName,
		)
		if err != nil {
			return nil, fmt.Errorf("project bug row: %w", err)
		}

		b.Product = product.Int64
		b.Project = project.Int64
		b.Module = module.Int64
		b.OpenedDate = nullStr(openedDate)
		b.AssignedDate = nullStr(assignedDate)
		b.ResolvedDate = nullStr(resolvedDate)
		b.ClosedDate = nullStr(closedDate)
		b.ProductName = nullStr(productName)
		b.ProjectName = nullStr(projectName)
		b.ModuleName = nullStr(moduleName)
		b.OpenedByName = nullStr(openedName)
		b.AssignedToName = nullStr(assignedName)
		b.ResolvedByName = nullStr(resolvedName)
		b.ClosedByName = nullStr(closedName)
		out = append(out, b)
	}
	return out, rows.Err()
}

func projectModules(rows *sql.Rows) ([]ModuleRecord, error) {
	var out []ModuleRecord
	for rows.Next() {
		var m ModuleRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.Root); err != nil {
			return nil, fmt.Errorf("project module row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func projectUsers(rows *sql.Rows) ([]UserRecord, error) {
	var out []UserRecord
	for rows.Next() {
		var u UserRecord
		if err := rows.Scan(&u.Account, &u.Realname, &u.Role); err != nil {
			return nil, fmt.Errorf("project user row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// nullStr converts a nullable column into the label form the canonical
// records use: nil for NULL, never an empty string standing in for one.
func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
