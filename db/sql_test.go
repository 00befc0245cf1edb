package db

import (
	"path/filepath"
	"testing"
)

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: postgresDialect}
	got := pg.rebind("SELECT 1 FROM t WHERE a = ? AND b = ?")
	if got != "SELECT 1 FROM t WHERE a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &SQLStore{dialect: sqliteDialect}
	if q := "SELECT ?"; lite.rebind(q) != q {
		t.Errorf("sqlite rebind changed the query")
	}
}

func TestSearchClause(t *testing.T) {
	where, args := searchClause("50%_OFF", "title", "description")
	want := ` WHERE (LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`
	if where != want {
		t.Errorf("where = %q", where)
	}
	if len(args) != 2 || args[0] != `%50\%\_off%` {
		t.Errorf("args = %v", args)
	}
	if where, args := searchClause("", "title"); where != "" || args != nil {
		t.Errorf("empty search should add nothing, got %q %v", where, args)
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"null", 0},
		{"[]", 0},
		{`["a","b"]`, 2},
	}
	for _, tt := range tests {
		got, err := decodeList(tt.raw)
		if err != nil {
			t.Fatalf("decodeList(%q): %v", tt.raw, err)
		}
		if got == nil || len(got) != tt.want {
			t.Errorf("decodeList(%q) = %v", tt.raw, got)
		}
	}
	if _, err := decodeList("{"); err == nil {
		t.Error("expected error for malformed list")
	}
}

func TestOpenSQLSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "course.db")
	for i := 0; i < 2; i++ {
		s, err := OpenSQL("sqlite", path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := OpenSQL("mysql", "x"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
