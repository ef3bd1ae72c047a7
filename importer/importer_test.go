package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/dbopen"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/importer"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema)))
}

func TestImportRows_ValidAndInvalidMixed(t *testing.T) {
	// WHAT: Bad rows are reported and skipped without aborting the batch.
	s := newTestStore(t)
	rows := []importer.Row{
		{Line: 2, Name: "Rajesh Kumar", Email: "rajesh@example.com", JoinDate: "2024-01-15"},
		{Line: 3, Name: "", Email: "missing@example.com"},
		{Line: 4, Name: "No Email", Email: ""},
		{Line: 5, Name: "Priya Sharma", Email: "priya@example.com"},
	}

	report := importer.ImportRows(context.Background(), s, rows)
	if report.Imported != 2 {
		t.Errorf("imported = %d, want 2", report.Imported)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", report.Errors)
	}
	if !strings.Contains(report.Errors[0], "Row 3") {
		t.Errorf("first error = %q, want row 3 reference", report.Errors[0])
	}

	customers, err := s.ListCustomers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(customers) != 2 {
		t.Fatalf("stored %d customers, want 2", len(customers))
	}
	if customers[0].JoinDate.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("join date = %v", customers[0].JoinDate)
	}
}

func TestImportRows_DuplicateEmailReported(t *testing.T) {
	s := newTestStore(t)
	rows := []importer.Row{
		{Line: 2, Name: "A", Email: "same@example.com"},
		{Line: 3, Name: "B", Email: "SAME@example.com"},
	}
	report := importer.ImportRows(context.Background(), s, rows)
	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "already exists") {
		t.Errorf("errors = %v", report.Errors)
	}
}

func TestReadWorkbook_RoundTripsSampleFormat(t *testing.T) {
	// WHAT: The sample workbook we hand out parses back through the reader.
	// WHY: The template and the parser must agree on the header contract.
	data, err := importer.SampleWorkbook()
	if err != nil {
		t.Fatal(err)
	}
	rows, err := importer.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Name != "Rajesh Kumar" || rows[0].Email != "rajesh@example.com" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[0].Line != 2 {
		t.Errorf("line = %d, want 2 (header is line 1)", rows[0].Line)
	}
	if rows[2].Location != "Ahmedabad" {
		t.Errorf("third row location = %q", rows[2].Location)
	}
}

func TestReadWorkbook_EmptyWorkbook(t *testing.T) {
	data, err := emptyWorkbook()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := importer.ReadWorkbook(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for workbook without data rows")
	}
}

// emptyWorkbook builds a workbook containing only a header row.
func emptyWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	header := []any{"name", "email"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := importer.ReadWorkbook(strings.NewReader("definitely not xlsx"))
	if err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}

func TestParseDSN_URLForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mysql://user:pw@db.example.com:3306/shop", "user:pw@tcp(db.example.com:3306)/shop?parseTime=true"},
		{"mariadb://user:pw@host:3306/shop", "user:pw@tcp(host:3306)/shop?parseTime=true"},
		{"user:pw@tcp(host:3306)/shop", "user:pw@tcp(host:3306)/shop"}, // passthrough
	}
	for _, tc := range cases {
		got, err := importer.ParseDSN(tc.in)
		if err != nil {
			t.Errorf("ParseDSN(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDSN_Incomplete(t *testing.T) {
	if _, err := importer.ParseDSN("mysql://host/db"); err == nil {
		t.Fatal("expected error for dsn without user")
	}
}

func TestFetchMySQLRows_RejectsBadTableName(t *testing.T) {
	// WHAT: Table names that could smuggle SQL are refused before any
	// connection is attempted.
	src := importer.MySQLSource{Host: "h", User: "u", Database: "d", Table: "users; DROP TABLE x"}
	if _, err := importer.FetchMySQLRows(context.Background(), src); err == nil {
		t.Fatal("expected error for invalid table name")
	}
}
