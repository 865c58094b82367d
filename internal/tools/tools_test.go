package tools_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
	"github.com/zentaolab/zentao-mcp/internal/store"
	"github.com/zentaolab/zentao-mcp/internal/tools"
)

// fixture is a compact ZenTao snapshot covering the tool scenarios:
// product "Demo" (id 1) linked to projects 10 and 11, product "Lonely"
// with no links, Alice touching bugs 5 and 9 in different roles, and a
// soft-deleted row in every table.
const fixture = `
CREATE TABLE zt_product (id INTEGER PRIMARY KEY, name TEXT, code TEXT DEFAULT '',
	PO TEXT DEFAULT '', QD TEXT DEFAULT '', createdBy TEXT DEFAULT '',
	createdDate TEXT, deleted TEXT DEFAULT '0');
CREATE TABLE zt_project (id INTEGER PRIMARY KEY, name TEXT, code TEXT DEFAULT '',
	"begin" TEXT, "end" TEXT, status TEXT DEFAULT '', PO TEXT DEFAULT '',
	PM TEXT DEFAULT '', QD TEXT DEFAULT '', deleted TEXT DEFAULT '0');
CREATE TABLE zt_projectproduct (project INTEGER, product INTEGER,
	PRIMARY KEY (project, product));
CREATE TABLE zt_bug (id INTEGER PRIMARY KEY, product INTEGER DEFAULT 0,
	project INTEGER DEFAULT 0, module INTEGER DEFAULT 0, title TEXT,
	severity INTEGER DEFAULT 3, pri INTEGER DEFAULT 3, steps TEXT DEFAULT '',
	status TEXT DEFAULT 'active', openedBy TEXT DEFAULT '', openedDate TEXT,
	assignedTo TEXT DEFAULT '', assignedDate TEXT, resolvedBy TEXT DEFAULT '',
	resolvedDate TEXT, closedBy TEXT DEFAULT '', closedDate TEXT,
	deleted TEXT DEFAULT '0');
CREATE TABLE zt_module (id INTEGER PRIMARY KEY, name TEXT, root INTEGER DEFAULT 0,
	deleted TEXT DEFAULT '0');
CREATE TABLE zt_user (account TEXT PRIMARY KEY, realname TEXT DEFAULT '',
	role TEXT DEFAULT '', deleted TEXT DEFAULT '0');

INSERT INTO zt_user VALUES
	('alice01', 'Alice', 'dev', '0'),
	('bob02', 'Bob', 'qa', '0'),
	('carol03', 'Carol', 'pm', '1');
INSERT INTO zt_product VALUES
	(1, 'Demo', 'demo', 'alice01', 'bob02', 'alice01', '2024-01-05 10:00:00', '0'),
	(2, 'Legacy', 'leg', 'bob02', 'bob02', 'bob02', NULL, '1'),
	(3, 'Lonely', 'lon', 'bob02', 'bob02', 'bob02', NULL, '0');
INSERT INTO zt_project VALUES
	(10, 'Demo Sprint 1', 'ds1', '2024-03-01', '2024-03-31', 'doing', 'alice01', 'bob02', 'bob02', '0'),
	(11, 'Demo Sprint 2', 'ds2', '2024-04-01', NULL, 'wait', 'alice01', 'alice01', 'bob02', '0'),
	(12, 'Demo Retired', 'dsr', '2023-01-01', '2023-06-30', 'closed', 'bob02', 'bob02', 'bob02', '1');
INSERT INTO zt_projectproduct VALUES (10, 1), (11, 1), (12, 1);
INSERT INTO zt_module VALUES
	(100, 'UI', 1, '0'), (101, 'API', 1, '0'), (102, 'Core', 3, '0'), (103, 'Obsolete', 1, '1');
INSERT INTO zt_bug VALUES
	(5, 1, 10, 100, 'Login fails on empty password', 2, 1, 'steps here', 'active',
	 'alice01', '2024-03-02 11:00:00', 'bob02', '2024-03-02 12:00:00', '', NULL, '', NULL, '0'),
	(7, 3, 0, 0, 'Crash with no project set', 1, 2, '', 'active',
	 'bob02', '2024-03-05 09:00:00', '', NULL, '', NULL, '', NULL, '0'),
	(9, 1, 11, 101, 'API returns 500 on bad id', 3, 3, '', 'resolved',
	 'bob02', '2024-04-02 14:00:00', 'alice01', '2024-04-02 15:00:00',
	 'bob02', '2024-04-03 10:00:00', '', NULL, '0'),
	(8, 1, 10, 100, 'Duplicate of 5', 2, 1, '', 'closed',
	 'alice01', '2024-03-02 11:30:00', '', NULL, '', NULL, 'bob02', '2024-03-03 16:00:00', '1');
`

// newTestEngine opens a temp SQLite store seeded with the fixture.
func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()
	db, err := store.Open("sqlite", filepath.Join(t.TempDir(), "zentao.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(fixture); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return query.New(db, nil)
}

// makeReq builds a tool request with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if len(r.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", r.Content[0])
	}
	return tc.Text
}

// structured round-trips the structured payload through JSON so tests
// can assert on it without reaching into unexported types.
func structured(t *testing.T, r *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if r.StructuredContent == nil {
		t.Fatal("result has no structured content")
	}
	data, err := json.Marshal(r.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return m
}

// ─── list_products ───────────────────────────────────────────────────────────

func TestListProducts(t *testing.T) {
	tool := tools.NewProductsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	s := structured(t, res)
	if s["total_products"] != float64(2) {
		t.Errorf("total_products = %v, want 2 (deleted excluded)", s["total_products"])
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Demo") || !strings.Contains(text, "Lonely") {
		t.Errorf("text listing missing product names:\n%s", text)
	}
	if strings.Contains(text, "Legacy") {
		t.Errorf("text listing contains soft-deleted product:\n%s", text)
	}
}

// ─── get_projects_by_product ─────────────────────────────────────────────────

func TestGetProjectsByProduct_Demo(t *testing.T) {
	tool := tools.NewProjectsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"product_name": "Demo",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	s := structured(t, res)
	if s["total_projects"] != float64(2) {
		t.Errorf("total_projects = %v, want 2", s["total_projects"])
	}
	product := s["product"].(map[string]interface{})
	if product["id"] != float64(1) {
		t.Errorf("product id = %v, want 1", product["id"])
	}
	projects := s["projects"].([]interface{})
	for i, want := range []float64{10, 11} {
		p := projects[i].(map[string]interface{})
		if p["id"] != want {
			t.Errorf("projects[%d] id = %v, want %v", i, p["id"], want)
		}
		if p["product_id"] != float64(1) {
			t.Errorf("projects[%d] product_id = %v, want 1", i, p["product_id"])
		}
		if p["product_name"] != "Demo" {
			t.Errorf("projects[%d] product_name = %v, want Demo", i, p["product_name"])
		}
	}
}

func TestGetProjectsByProduct_ZeroLinksIsNotAnError(t *testing.T) {
	tool := tools.NewProjectsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"product_name": "Lonely",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("found product with zero projects reported as error: %s", resultText(t, res))
	}
	s := structured(t, res)
	if s["total_projects"] != float64(0) {
		t.Errorf("total_projects = %v, want 0", s["total_projects"])
	}
}

func TestGetProjectsByProduct_GhostIsNotFound(t *testing.T) {
	tool := tools.NewProjectsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"product_name": "Ghost",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Fatal("unknown product did not produce an error result")
	}
	if text := resultText(t, res); !strings.Contains(text, "Ghost") {
		t.Errorf("not-found message does not name the product: %s", text)
	}
}

func TestGetProjectsByProduct_BlankNameIsValidationError(t *testing.T) {
	tool := tools.NewProjectsTool(newTestEngine(t))

	for _, name := range []interface{}{"", "   ", nil} {
		args := map[string]interface{}{}
		if name != nil {
			args["product_name"] = name
		}
		res, err := tool.Handle(context.Background(), makeReq(args))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if !res.IsError {
			t.Errorf("blank product_name %q accepted", name)
		}
		if text := resultText(t, res); !strings.Contains(text, "product_name") {
			t.Errorf("validation message does not name the argument: %s", text)
		}
	}
}

// ─── get_bugs ────────────────────────────────────────────────────────────────

func TestGetBugs_ByRealnameAcrossRoles(t *testing.T) {
	tool := tools.NewBugsTool(newTestEngine(t))

	// Alice opened bug 5 and is assigned bug 9.
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"user_realname": "Alice",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	s := structured(t, res)
	if s["total_bugs"] != float64(2) {
		t.Fatalf("total_bugs = %v, want 2", s["total_bugs"])
	}
	bugs := s["bugs"].([]interface{})
	for i, want := range []float64{5, 9} {
		if id := bugs[i].(map[string]interface{})["id"]; id != want {
			t.Errorf("bugs[%d] id = %v, want %v", i, id, want)
		}
	}
}

func TestGetBugs_UnknownRealnameIsEmptyNotError(t *testing.T) {
	tool := tools.NewBugsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"user_realname": "Nobody",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("resolution miss reported as error: %s", resultText(t, res))
	}
	s := structured(t, res)
	if s["total_bugs"] != float64(0) {
		t.Errorf("total_bugs = %v, want 0", s["total_bugs"])
	}
	if bugs := s["bugs"].([]interface{}); len(bugs) != 0 {
		t.Errorf("bugs = %v, want empty", bugs)
	}
}

func TestGetBugs_FiltersEcho(t *testing.T) {
	tool := tools.NewBugsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"limit":      float64(500), // above the cap
		"product_id": float64(1),
		"status":     "resolved",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	s := structured(t, res)
	filters := s["filters"].(map[string]interface{})
	if filters["limit"] != float64(200) {
		t.Errorf("echoed limit = %v, want 200 (clamped)", filters["limit"])
	}
	if filters["product_id"] != float64(1) {
		t.Errorf("echoed product_id = %v, want 1", filters["product_id"])
	}
	if filters["status"] != "resolved" {
		t.Errorf("echoed status = %v, want resolved", filters["status"])
	}
	if filters["project_id"] != nil {
		t.Errorf("echoed project_id = %v, want null", filters["project_id"])
	}
	if filters["user_realname"] != nil {
		t.Errorf("echoed user_realname = %v, want null", filters["user_realname"])
	}

	if s["total_bugs"] != float64(1) {
		t.Errorf("total_bugs = %v, want 1 (bug 9)", s["total_bugs"])
	}
}

func TestGetBugs_NullLabelsStayNull(t *testing.T) {
	tool := tools.NewBugsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"product_id": float64(3),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	s := structured(t, res)
	bugs := s["bugs"].([]interface{})
	if len(bugs) != 1 {
		t.Fatalf("got %d bugs, want 1", len(bugs))
	}
	b := bugs[0].(map[string]interface{})

	// The label keys must be present and null, not absent and not "".
	for _, key := range []string{"project_name", "module_name", "resolved_by_name", "closed_by_name"} {
		v, present := b[key]
		if !present {
			t.Errorf("label %q missing from record", key)
			continue
		}
		if v != nil {
			t.Errorf("label %q = %v, want null", key, v)
		}
	}
}

func TestGetBugs_TextAndStructuredAgree(t *testing.T) {
	tool := tools.NewBugsTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	s := structured(t, res)
	text := resultText(t, res)
	bugs := s["bugs"].([]interface{})
	for _, raw := range bugs {
		title := raw.(map[string]interface{})["title"].(string)
		if !strings.Contains(text, title) {
			t.Errorf("text listing missing bug title %q", title)
		}
	}
}

// ─── list_users / list_modules ───────────────────────────────────────────────

func TestListUsers(t *testing.T) {
	tool := tools.NewUsersTool(newTestEngine(t))

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	s := structured(t, res)
	if s["total_users"] != float64(2) {
		t.Errorf("total_users = %v, want 2 (deleted excluded)", s["total_users"])
	}
	users := s["users"].([]interface{})
	if users[0].(map[string]interface{})["account"] != "alice01" {
		t.Errorf("first user = %v, want alice01", users[0])
	}
}

func TestListModules_OptionalFilter(t *testing.T) {
	tool := tools.NewModulesTool(newTestEngine(t))

	all, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if s := structured(t, all); s["total_modules"] != float64(3) {
		t.Errorf("unfiltered total_modules = %v, want 3", s["total_modules"])
	}

	one, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"product_id": float64(1),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	s := structured(t, one)
	if s["total_modules"] != float64(2) {
		t.Errorf("product-1 total_modules = %v, want 2", s["total_modules"])
	}
	if s["product_id"] != float64(1) {
		t.Errorf("echoed product_id = %v, want 1", s["product_id"])
	}
	for _, raw := range s["modules"].([]interface{}) {
		m := raw.(map[string]interface{})
		if m["root"] != float64(1) {
			t.Errorf("module %v owned by product %v, want 1", m["id"], m["root"])
		}
	}
}
