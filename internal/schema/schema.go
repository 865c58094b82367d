// Package schema describes the ZenTao tables this server reads.
//
// It is data only: entity kinds, table names, join keys, and the
// person-reference columns of each entity. Query building lives in
// internal/query; nothing here touches the database.
package schema

import "fmt"

// EntityKind identifies one of the queryable ZenTao entities.
type EntityKind int

const (
	Product EntityKind = iota
	Project
	Bug
	Module
	User
)

// String returns the entity name used in logs and error messages.
func (k EntityKind) String() string {
	switch k {
	case Product:
		return "product"
	case Project:
		return "project"
	case Bug:
		return "bug"
	case Module:
		return "module"
	case User:
		return "user"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Table returns the ZenTao table backing the entity.
func (k EntityKind) Table() string {
	switch k {
	case Product:
		return "zt_product"
	case Project:
		return "zt_project"
	case Bug:
		return "zt_bug"
	case Module:
		return "zt_module"
	case User:
		return "zt_user"
	default:
		panic(fmt.Sprintf("schema: unknown entity kind %d", int(k)))
	}
}

// LinkTable is the project↔product association table. Its composite key
// (project, product) is the only state it carries.
const LinkTable = "zt_projectproduct"

// NotDeleted is the soft-delete predicate ZenTao uses on every entity
// table. The column is a char flag, not a boolean.
const NotDeleted = "deleted = '0'"

// PersonFields returns the columns of the entity that hold a zt_user
// account key. The account is the only valid join key for person
// references; realname is display-only and never stored as a foreign key.
func PersonFields(k EntityKind) []string {
	switch k {
	case Bug:
		return []string{"openedBy", "assignedTo", "resolvedBy", "closedBy"}
	case Project:
		return []string{"PO", "PM", "QD"}
	case Product:
		return []string{"PO", "QD", "createdBy"}
	default:
		return nil
	}
}
