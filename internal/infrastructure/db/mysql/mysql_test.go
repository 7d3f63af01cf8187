package mysql

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	dsn := DSN(Config{
		Host:     "db.local",
		Port:     3307,
		User:     "root",
		Password: "pw",
		Database: "ejemplo",
	})

	if !strings.HasPrefix(dsn, "root:pw@tcp(db.local:3307)/ejemplo?") {
		t.Fatalf("unexpected dsn prefix: %s", dsn)
	}
	for _, want := range []string{"clientFoundRows=true", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected %q in dsn %s", want, dsn)
		}
	}
}
