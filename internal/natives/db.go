package natives

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `db` module: open, exec, query, close, backed by
// modernc.org/sqlite through database/sql (SPEC_FULL §4.6). Handles
// are owned by user code (spec §5): the VM doesn't track them for GC,
// so a script that leaks a handle leaks the underlying connection.
func init() {
	register(&moduleEntry{
		name: "db",
		fns: map[string]nativeSpec{
			"open":  {1, dbOpen},
			"exec":  {2, dbExec},
			"query": {2, dbQuery},
			"close": {1, dbClose},
		},
	})
}

var (
	dbMu      sync.Mutex
	dbHandles = map[int]*sql.DB{}
	dbNextID  = 1
)

func dbOpen(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "db.open")
	if err != nil {
		return vm.Value{}, err
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return vm.Value{}, err
	}
	dbMu.Lock()
	id := dbNextID
	dbNextID++
	dbHandles[id] = conn
	dbMu.Unlock()
	return vm.Number(float64(id)), nil
}

func lookupDB(args []vm.Value, i int, who string) (*sql.DB, error) {
	n, err := wantNumber(args, i, who)
	if err != nil {
		return nil, err
	}
	dbMu.Lock()
	conn, ok := dbHandles[int(n)]
	dbMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: invalid or closed db handle", who)
	}
	return conn, nil
}

func dbExec(m *vm.VM, args []vm.Value) (vm.Value, error) {
	conn, err := lookupDB(args, 0, "db.exec")
	if err != nil {
		return vm.Value{}, err
	}
	query, err := wantString(args, 1, "db.exec")
	if err != nil {
		return vm.Value{}, err
	}
	result, err := conn.Exec(query)
	if err != nil {
		return vm.Value{}, err
	}
	affected, _ := result.RowsAffected()
	return vm.Number(float64(affected)), nil
}

// dbQuery runs query and returns an array of tables, one per row, each
// keyed by column name.
func dbQuery(m *vm.VM, args []vm.Value) (vm.Value, error) {
	conn, err := lookupDB(args, 0, "db.query")
	if err != nil {
		return vm.Value{}, err
	}
	query, err := wantString(args, 1, "db.query")
	if err != nil {
		return vm.Value{}, err
	}
	rows, err := conn.Query(query)
	if err != nil {
		return vm.Value{}, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return vm.Value{}, err
	}
	var out []vm.Value
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return vm.Value{}, err
		}
		table := m.NewTable()
		for i, col := range cols {
			table.Set(col, sqlValueToValue(m, raw[i]))
		}
		out = append(out, table.Value())
	}
	if err := rows.Err(); err != nil {
		return vm.Value{}, err
	}
	return m.NewArray(out), nil
}

func sqlValueToValue(m *vm.VM, raw interface{}) vm.Value {
	switch v := raw.(type) {
	case nil:
		return vm.Nil()
	case int64:
		return vm.Number(float64(v))
	case float64:
		return vm.Number(v)
	case string:
		return m.InternString(v)
	case []byte:
		return m.InternString(string(v))
	case bool:
		return vm.Bool(v)
	default:
		return m.InternString(fmt.Sprintf("%v", v))
	}
}

func dbClose(m *vm.VM, args []vm.Value) (vm.Value, error) {
	n, err := wantNumber(args, 0, "db.close")
	if err != nil {
		return vm.Value{}, err
	}
	dbMu.Lock()
	conn, ok := dbHandles[int(n)]
	delete(dbHandles, int(n))
	dbMu.Unlock()
	if !ok {
		return vm.Value{}, fmt.Errorf("db.close: invalid or closed db handle")
	}
	return vm.Nil(), conn.Close()
}
