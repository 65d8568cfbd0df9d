package catalog

import (
	"os"
	"path/filepath"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	dberror "simpledb/pkg/error"
	"testing"
)

type fakeFile struct {
	id primitives.TableID
	td *tuple.TupleDescription
}

func (f *fakeFile) GetID() primitives.TableID                { return f.id }
func (f *fakeFile) GetTupleDesc() *tuple.TupleDescription     { return f.td }
func (f *fakeFile) ReadPage(primitives.PageID) (page.Page, error) { return nil, nil }
func (f *fakeFile) WritePage(page.Page) error                 { return nil }
func (f *fakeFile) Close() error                              { return nil }

func TestAddTableAndLookup(t *testing.T) {
	cat := NewCatalog()
	f := &fakeFile{id: 7}
	id := cat.AddTable(f, "people", "id")

	if id != 7 {
		t.Errorf("expected AddTable to return the file's id, got %d", id)
	}

	gotID, err := cat.GetTableID("people")
	if err != nil {
		t.Fatalf("lookup by name: %v", err)
	}
	if gotID != 7 {
		t.Errorf("expected id 7, got %d", gotID)
	}

	name, err := cat.GetTableName(7)
	if err != nil {
		t.Fatalf("lookup name by id: %v", err)
	}
	if name != "people" {
		t.Errorf("expected name 'people', got %q", name)
	}

	pk, err := cat.GetPrimaryKey(7)
	if err != nil {
		t.Fatalf("lookup primary key: %v", err)
	}
	if pk != "id" {
		t.Errorf("expected primary key 'id', got %q", pk)
	}
}

func TestGetTableIDMissingReturnsNoSuchTable(t *testing.T) {
	cat := NewCatalog()
	if _, err := cat.GetTableID("ghost"); !dberror.Is(err, dberror.CodeNoSuchTable) {
		t.Errorf("expected NoSuchTable, got %v", err)
	}
}

func TestGetDatabaseFileMissingReturnsNoSuchTable(t *testing.T) {
	cat := NewCatalog()
	if _, err := cat.GetDatabaseFile(42); !dberror.Is(err, dberror.CodeNoSuchTable) {
		t.Errorf("expected NoSuchTable, got %v", err)
	}
}

func TestAddTableNameCollisionKeepsOldIDAddressable(t *testing.T) {
	cat := NewCatalog()
	first := &fakeFile{id: 1}
	second := &fakeFile{id: 2}

	cat.AddTable(first, "dup", "")
	cat.AddTable(second, "dup", "")

	gotID, err := cat.GetTableID("dup")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if gotID != 2 {
		t.Errorf("expected name lookup to resolve to the most recently added id 2, got %d", gotID)
	}

	if _, err := cat.GetDatabaseFile(1); err != nil {
		t.Errorf("expected the evicted entry's id 1 to remain addressable by id, got %v", err)
	}
}

func TestTableIDsAndClear(t *testing.T) {
	cat := NewCatalog()
	cat.AddTable(&fakeFile{id: 1}, "a", "")
	cat.AddTable(&fakeFile{id: 2}, "b", "")

	ids := cat.TableIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 table ids, got %d", len(ids))
	}

	cat.Clear()
	if len(cat.TableIDs()) != 0 {
		t.Error("expected Clear to empty the catalog")
	}
	if _, err := cat.GetTableID("a"); !dberror.Is(err, dberror.CodeNoSuchTable) {
		t.Error("expected lookups to fail after Clear")
	}
}

func TestLoadSchemaFileParsesTablesAndTypes(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.txt")
	contents := "people (id int pk, name string)\naccounts (acct_id int pk, balance int)\n"
	if err := os.WriteFile(schemaPath, []byte(contents), 0644); err != nil {
		t.Fatalf("writing schema file: %v", err)
	}

	cat := NewCatalog()
	var openedPaths []primitives.Filepath
	openFile := func(path primitives.Filepath, td *tuple.TupleDescription) (page.DbFile, error) {
		openedPaths = append(openedPaths, path)
		return &fakeFile{id: primitives.TableID(len(openedPaths)), td: td}, nil
	}

	if err := LoadSchemaFile(cat, schemaPath, openFile); err != nil {
		t.Fatalf("LoadSchemaFile: %v", err)
	}

	if len(openedPaths) != 2 {
		t.Fatalf("expected 2 data files opened, got %d", len(openedPaths))
	}
	if openedPaths[0] != primitives.Filepath(filepath.Join(dir, "people.dat")) {
		t.Errorf("expected people.dat, got %s", openedPaths[0])
	}

	peopleID, err := cat.GetTableID("people")
	if err != nil {
		t.Fatalf("lookup people: %v", err)
	}
	pk, err := cat.GetPrimaryKey(peopleID)
	if err != nil {
		t.Fatalf("primary key: %v", err)
	}
	if pk != "id" {
		t.Errorf("expected primary key 'id', got %q", pk)
	}

	td, err := cat.GetTupleDesc(peopleID)
	if err != nil {
		t.Fatalf("tuple desc: %v", err)
	}
	if td.NumFields() != 2 {
		t.Errorf("expected 2 fields, got %d", td.NumFields())
	}
}

func TestLoadSchemaFileRejectsDuplicatePrimaryKey(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.txt")
	contents := "bad (a int pk, b int pk)\n"
	if err := os.WriteFile(schemaPath, []byte(contents), 0644); err != nil {
		t.Fatalf("writing schema file: %v", err)
	}

	cat := NewCatalog()
	openFile := func(path primitives.Filepath, td *tuple.TupleDescription) (page.DbFile, error) {
		return &fakeFile{id: 1, td: td}, nil
	}

	if err := LoadSchemaFile(cat, schemaPath, openFile); err == nil {
		t.Error("expected an error for a table declaring two primary keys")
	}
}

func TestLoadSchemaFileRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.txt")
	contents := "bad (a float)\n"
	if err := os.WriteFile(schemaPath, []byte(contents), 0644); err != nil {
		t.Fatalf("writing schema file: %v", err)
	}

	cat := NewCatalog()
	openFile := func(path primitives.Filepath, td *tuple.TupleDescription) (page.DbFile, error) {
		return &fakeFile{id: 1, td: td}, nil
	}

	if err := LoadSchemaFile(cat, schemaPath, openFile); err == nil {
		t.Error("expected an error for an unknown field type")
	}
}
