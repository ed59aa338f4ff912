package natives

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenlang/lumen/internal/vm"
)

func TestDbModuleExecQueryClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")
	src := fmt.Sprintf(`
		let db = module("db");
		let open = db.open;
		let exec = db.exec;
		let query = db.query;
		let close = db.close;
		let handle = open(%q);
		exec(handle, "create table users (name text, age integer)");
		exec(handle, "insert into users (name, age) values ('ada', 36)");
		let rows = query(handle, "select name, age from users");
		dump len(rows);
		dump rows[0]["name"];
		dump rows[0]["age"];
		close(handle);
	`, path)
	assert.Equal(t, "1\nada\n36\n", run(t, src))
}

func TestDbModuleRejectsClosedHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test2.sqlite")
	src := fmt.Sprintf(`
		let db = module("db");
		let handle = db.open(%q);
		db.close(handle);
		db.exec(handle, "select 1");
	`, path)
	m := vm.New()
	m.Out = &bytes.Buffer{}
	Install(m)
	_, runtimeErr := m.Interpret(src)
	assert.Error(t, runtimeErr, "expected an error using a closed db handle")
}
