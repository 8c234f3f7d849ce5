package repositories

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ddlColumns extracts the column names a CREATE TABLE statement defines.
func ddlColumns(t *testing.T, ddl, table string) map[string]bool {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\);`)
	m := re.FindStringSubmatch(ddl)
	require.NotNil(t, m, "table %s not found in migration", table)

	cols := map[string]bool{}
	for _, line := range strings.Split(m[1], "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cols[strings.ToLower(fields[0])] = true
	}
	return cols
}

// queryColumns extracts the bare column identifiers a child-row query reads,
// from both its SELECT list and its ORDER BY clause.
func queryColumns(query string) []string {
	var cols []string
	selectPart := query[len("SELECT "):strings.Index(query, " FROM ")]
	for _, field := range strings.Split(selectPart, ",") {
		field = strings.TrimSpace(field)
		if strings.HasPrefix(strings.ToUpper(field), "COALESCE(") {
			field = field[len("COALESCE("):]
		}
		if name := regexp.MustCompile(`^\w+`).FindString(field); name != "" {
			cols = append(cols, strings.ToLower(name))
		}
	}
	if i := strings.Index(query, "ORDER BY "); i >= 0 {
		for _, field := range strings.Split(query[i+len("ORDER BY "):], ",") {
			cols = append(cols, strings.ToLower(strings.TrimSpace(field)))
		}
	}
	return cols
}

// The bill child queries must stay in lockstep with the migration DDL. A
// query referencing an undefined column fails at runtime on every bill read,
// which blocks payment recording and document regeneration.
func TestBillChildQueriesMatchSchema(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/004_create_bills.sql")
	require.NoError(t, err)

	queries := map[string]string{
		"bill_items":     billItemsQuery,
		"bill_discounts": billDiscountsQuery,
		"bill_payments":  billPaymentsQuery,
	}
	for table, query := range queries {
		cols := ddlColumns(t, string(ddl), table)
		for _, col := range queryColumns(query) {
			require.True(t, cols[col], "%s query references %q, which %s does not define", table, col, table)
		}
	}
}

// Reads must come back in the order lines were rung up; uuid primary keys
// carry no ordering, so each child table orders by its position column.
func TestBillChildQueriesOrderByPosition(t *testing.T) {
	for _, query := range []string{billItemsQuery, billDiscountsQuery, billPaymentsQuery} {
		require.Contains(t, query, "ORDER BY position")
	}
	cols := ddlColumns(t, mustReadMigration(t), "bill_items")
	require.True(t, cols["position"])
}

func mustReadMigration(t *testing.T) string {
	t.Helper()
	ddl, err := os.ReadFile("../../migrations/004_create_bills.sql")
	require.NoError(t, err)
	return string(ddl)
}
