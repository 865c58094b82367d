package query

// Canonical records produced by the projector. Base-entity attributes
// are copied verbatim from the row; *_name fields carry the denormalized
// labels resolved through the fixed join shape. Label fields are
// pointers and never omitted from the JSON form: a null foreign key (or
// a dangling one, e.g. an account that no longer exists) yields a JSON
// null, not an empty string and not a missing key. Callers can rely on
// the field set per entity kind being stable; evolution is additive only.

// ProductRecord is one row of zt_product.
type ProductRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	PO          string  `json:"PO"`
	QD          string  `json:"QD"`
	CreatedBy   string  `json:"createdBy"`
	CreatedDate *string `json:"createdDate"`
}

// ProjectRecord is one row of zt_project. ProductID and ProductName are
// populated only on the projects-by-product path, where the association
// table pins the project to a single product; they are null on any
// future unfiltered listing.
type ProjectRecord struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Begin  *string `json:"begin"`
	End    *string `json:"end"`
	Status string  `json:"status"`
	PO     string  `json:"PO"`
	PM     string  `json:"PM"`
	QD     string  `json:"QD"`

	ProductID   *int64  `json:"product_id"`
	ProductName *string `json:"product_name"`
}

// BugRecord is one row of zt_bug plus the labels from the seven-way
// join. Product, Project and Module hold the raw foreign keys (ZenTao
// stores 0 for "none"); the corresponding label is null when the key is
// 0 or points at a deleted row.
type BugRecord struct {
	ID       int64  `json:"id"`
	Product  int64  `json:"product"`
	Project  int64  `json:"project"`
	Module   int64  `json:"module"`
	Title    string `json:"title"`
	Severity int    `json:"severity"`
	Pri      int    `json:"pri"`
	Steps    string `json:"steps"`
	Status   string `json:"status"`

	OpenedBy     string  `json:"openedBy"`
	OpenedDate   *string `json:"openedDate"`
	AssignedTo   string  `json:"assignedTo"`
	AssignedDate *string `json:"assignedDate"`
	ResolvedBy   string  `json:"resolvedBy"`
	ResolvedDate *string `json:"resolvedDate"`
	ClosedBy     string  `json:"closedBy"`
	ClosedDate   *string `json:"closedDate"`

	ProductName    *string `json:"product_name"`
	ProjectName    *string `json:"project_name"`
	ModuleName     *string `json:"module_name"`
	OpenedByName   *string `json:"opened_by_name"`
	AssignedToName *string `json:"assigned_to_name"`
	ResolvedByName *string `json:"resolved_by_name"`
	ClosedByName   *string `json:"closed_by_name"`
}

// ModuleRecord is one row of zt_module. Root is the owning product id,
// which is what ZenTao calls that column.
type ModuleRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Root int64  `json:"root"`
}

// UserRecord is one row of zt_user. Account is the opaque key every
// person-reference field joins against.
type UserRecord struct {
	Account  string `json:"account"`
	Realname string `json:"realname"`
	Role     string `json:"role"`
}
