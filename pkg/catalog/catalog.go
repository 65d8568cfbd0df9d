// Package catalog maps table names and ids to their on-disk heap files and
// schemas. It is the single source of truth operators consult to resolve a
// table name or id to the file BufferPool should read.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	dberror "simpledb/pkg/error"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

type tableEntry struct {
	name       string
	file       page.DbFile
	tupleDesc  *tuple.TupleDescription
	primaryKey string
}

// Catalog is a map-based registry of tableId ↔ (name, file, schema,
// primaryKeyName). Name lookups reflect the last addTable call for a given
// name; a name collision doesn't unregister the evicted entry's id, which
// stays addressable by id.
type Catalog struct {
	mutex     sync.RWMutex
	byID      map[primitives.TableID]*tableEntry
	nameToID  map[string]primitives.TableID
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:     make(map[primitives.TableID]*tableEntry),
		nameToID: make(map[string]primitives.TableID),
	}
}

// AddTable registers file under name with the given primary key column
// (empty if none). The table's id is the file's own id (a hash of its
// path), so re-adding the same file is idempotent.
func (c *Catalog) AddTable(file page.DbFile, name string, primaryKey string) primitives.TableID {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := file.GetID()
	c.byID[id] = &tableEntry{
		name:       name,
		file:       file,
		tupleDesc:  file.GetTupleDesc(),
		primaryKey: primaryKey,
	}
	c.nameToID[name] = id
	return id
}

func (c *Catalog) GetTableID(name string) (primitives.TableID, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	id, ok := c.nameToID[name]
	if !ok {
		return 0, dberror.NoSuchTable(fmt.Sprintf("table %q not registered", name))
	}
	return id, nil
}

func (c *Catalog) GetDatabaseFile(tableID primitives.TableID) (page.DbFile, error) {
	entry, err := c.get(tableID)
	if err != nil {
		return nil, err
	}
	return entry.file, nil
}

func (c *Catalog) GetTupleDesc(tableID primitives.TableID) (*tuple.TupleDescription, error) {
	entry, err := c.get(tableID)
	if err != nil {
		return nil, err
	}
	return entry.tupleDesc, nil
}

func (c *Catalog) GetPrimaryKey(tableID primitives.TableID) (string, error) {
	entry, err := c.get(tableID)
	if err != nil {
		return "", err
	}
	return entry.primaryKey, nil
}

func (c *Catalog) GetTableName(tableID primitives.TableID) (string, error) {
	entry, err := c.get(tableID)
	if err != nil {
		return "", err
	}
	return entry.name, nil
}

func (c *Catalog) TableIDs() []primitives.TableID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ids := make([]primitives.TableID, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}

func (c *Catalog) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.byID = make(map[primitives.TableID]*tableEntry)
	c.nameToID = make(map[string]primitives.TableID)
}

func (c *Catalog) get(tableID primitives.TableID) (*tableEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.byID[tableID]
	if !ok {
		return nil, dberror.NoSuchTable(fmt.Sprintf("table id %d not registered", tableID))
	}
	return entry, nil
}

// parsedColumn is one field in a schema-file table declaration.
type parsedColumn struct {
	name      string
	fieldType types.Type
	isPrimary bool
}

// LoadSchemaFile parses a catalog schema file — one table declaration per
// line, in the form:
//
//	tableName (field type [pk], field type, ...)
//
// where type is "int" or "string" (case-insensitive) and at most one
// field may carry the "pk" annotation. Each table's data file is expected
// at <dirOfSchemaFile>/<tableName>.dat, created via openFile if it
// doesn't already exist. Every table is registered into cat.
func LoadSchemaFile(cat *Catalog, schemaPath string, openFile func(path primitives.Filepath, td *tuple.TupleDescription) (page.DbFile, error)) error {
	f, err := os.Open(schemaPath)
	if err != nil {
		return fmt.Errorf("opening schema file: %w", err)
	}
	defer f.Close()

	dir := primitives.Filepath(schemaPath).Dir()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tableName, columns, err := parseSchemaLine(line)
		if err != nil {
			return fmt.Errorf("parsing schema line %q: %w", line, err)
		}

		fieldTypes := make([]types.Type, len(columns))
		fieldNames := make([]string, len(columns))
		primaryKey := ""
		for i, col := range columns {
			fieldTypes[i] = col.fieldType
			fieldNames[i] = col.name
			if col.isPrimary {
				primaryKey = col.name
			}
		}

		td, err := tuple.NewTupleDesc(fieldTypes, fieldNames)
		if err != nil {
			return fmt.Errorf("building schema for table %q: %w", tableName, err)
		}

		dataPath := primitives.Filepath(dir).Join(tableName + ".dat")
		file, err := openFile(dataPath, td)
		if err != nil {
			return fmt.Errorf("opening data file for table %q: %w", tableName, err)
		}

		cat.AddTable(file, tableName, primaryKey)
	}

	return scanner.Err()
}

func parseSchemaLine(line string) (string, []parsedColumn, error) {
	open := strings.Index(line, "(")
	close := strings.LastIndex(line, ")")
	if open < 0 || close < 0 || close < open {
		return "", nil, fmt.Errorf("missing parenthesized column list")
	}

	tableName := strings.TrimSpace(line[:open])
	if tableName == "" {
		return "", nil, fmt.Errorf("missing table name")
	}

	body := line[open+1 : close]
	rawFields := strings.Split(body, ",")

	columns := make([]parsedColumn, 0, len(rawFields))
	sawPK := false
	for _, raw := range rawFields {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) < 2 || len(parts) > 3 {
			return "", nil, fmt.Errorf("malformed field declaration %q", raw)
		}

		col := parsedColumn{name: parts[0]}
		switch strings.ToLower(parts[1]) {
		case "int":
			col.fieldType = types.IntType
		case "string":
			col.fieldType = types.StringType
		default:
			return "", nil, fmt.Errorf("unknown type %q", parts[1])
		}

		if len(parts) == 3 {
			if strings.ToLower(parts[2]) != "pk" {
				return "", nil, fmt.Errorf("unknown annotation %q", parts[2])
			}
			if sawPK {
				return "", nil, fmt.Errorf("table %q declares more than one primary key", tableName)
			}
			sawPK = true
			col.isPrimary = true
		}

		columns = append(columns, col)
	}

	return tableName, columns, nil
}
