package db

import (
	"testing"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare path", in: "shop.db", want: "shop.db?_fk=1&_txlock=immediate"},
		{name: "existing query", in: "file:shop.db?cache=shared", want: "file:shop.db?cache=shared&_fk=1&_txlock=immediate"},
		{name: "fk already set", in: "shop.db?_fk=0", want: "shop.db?_fk=0&_txlock=immediate"},
		{name: "both set", in: "shop.db?_txlock=deferred&_fk=1", want: "shop.db?_txlock=deferred&_fk=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqliteDSN(tt.in); got != tt.want {
				t.Fatalf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
