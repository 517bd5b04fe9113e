package store

import (
	"fmt"
	"strings"
	"testing"
)

func TestCreateTableSQLUsesConfiguredDimension(t *testing.T) {
	for _, size := range []int{768, 1536, 3072} {
		sql := createTableSQL(size)
		want := fmt.Sprintf("vector(%d)", size)
		if !strings.Contains(sql, want) {
			t.Errorf("vector size %d: DDL %q does not declare %s", size, sql, want)
		}
		if strings.Count(sql, "vector(") != 1 {
			t.Errorf("vector size %d: DDL %q declares more than one vector column", size, sql)
		}
	}
}
