package postgres

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

const reportsMigration = "../../../migrations/00004_create_checkin_reports.sql"

// Columns the service may legitimately leave unset (local vs S3 blob mode,
// ready vs failed status). The migration must not declare them NOT NULL:
// pgx sends nil *string/[]byte fields as explicit NULLs, which bypass
// column defaults.
var nullableReportColumns = []string{"object_key", "data", "error"}

func loadReportColumns(t *testing.T) map[string]string {
	t.Helper()

	raw, err := os.ReadFile(reportsMigration)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	body := string(raw)
	start := strings.Index(body, "(")
	end := strings.Index(body, ");")
	if start < 0 || end < 0 {
		t.Fatalf("no CREATE TABLE body found in %s", reportsMigration)
	}

	columns := make(map[string]string)
	for _, line := range strings.Split(body[start+1:end], "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		name, definition, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		columns[name] = definition
	}
	if len(columns) == 0 {
		t.Fatalf("no columns parsed from %s", reportsMigration)
	}
	return columns
}

func TestInsertReportQueryMatchesMigration(t *testing.T) {
	columns := loadReportColumns(t)

	m := regexp.MustCompile(`INSERT INTO checkin_reports \(([^)]+)\)`).FindStringSubmatch(insertReportQuery)
	if m == nil {
		t.Fatal("insert column list not found in insertReportQuery")
	}
	inserted := strings.Split(m[1], ",")

	for _, col := range inserted {
		col = strings.TrimSpace(col)
		if _, ok := columns[col]; !ok {
			t.Errorf("insert references column %q missing from the migration", col)
		}
	}

	placeholders := strings.Count(insertReportQuery, "$")
	if placeholders != len(inserted) {
		t.Errorf("%d placeholders for %d insert columns", placeholders, len(inserted))
	}
}

func TestOptionalReportColumnsAreNullable(t *testing.T) {
	columns := loadReportColumns(t)

	for _, col := range nullableReportColumns {
		definition, ok := columns[col]
		if !ok {
			t.Errorf("column %q missing from the migration", col)
			continue
		}
		if strings.Contains(strings.ToUpper(definition), "NOT NULL") {
			t.Errorf("column %q is NOT NULL but the service may insert NULL", col)
		}
	}
}
