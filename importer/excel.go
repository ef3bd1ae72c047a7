package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses the first sheet of an .xlsx workbook into Rows. The
// first row must be a header; recognised columns (case-insensitive) are
// name, email, phone, location and joinDate. Unknown columns are ignored.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("importer: workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %s: %w", sheets[0], err)
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("importer: workbook is empty or has no data rows")
	}

	col := make(map[string]int)
	for i, h := range cells[0] {
		col[normalizeHeader(h)] = i
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, cell := range cells[1:] {
		get := func(name string) string {
			j, ok := col[name]
			if !ok || j >= len(cell) {
				return ""
			}
			return cell[j]
		}
		rows = append(rows, Row{
			Line:     i + 2, // 1-based, accounting for the header row
			Name:     get("name"),
			Email:    get("email"),
			Phone:    get("phone"),
			Location: get("location"),
			JoinDate: get("joindate"),
		})
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), "_", "")
}

// sampleCustomers seed the downloadable import template.
var sampleCustomers = []Row{
	{Name: "Rajesh Kumar", Email: "rajesh@example.com", Phone: "9876543210", Location: "Mumbai", JoinDate: "2024-01-15"},
	{Name: "Priya Sharma", Email: "priya@example.com", Phone: "9876543211", Location: "Delhi", JoinDate: "2024-02-20"},
	{Name: "Amit Patel", Email: "amit@example.com", Phone: "9876543212", Location: "Ahmedabad", JoinDate: "2024-03-10"},
}

// SampleWorkbook renders the expected import format as an .xlsx workbook
// with a few example rows.
func SampleWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Customers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("importer: rename sheet: %w", err)
	}
	header := []any{"name", "email", "phone", "location", "joinDate"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("importer: write header: %w", err)
	}
	for i, c := range sampleCustomers {
		row := []any{c.Name, c.Email, c.Phone, c.Location, c.JoinDate}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("importer: write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("importer: serialise workbook: %w", err)
	}
	return buf.Bytes(), nil
}
