// Command retail-import loads customers into the local store from an Excel
// workbook or an external MySQL/MariaDB table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	_ "modernc.org/sqlite"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/dbopen"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/events"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/importer"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

func main() {
	dbPath := flag.String("db", "retail.db", "path to the SQLite database")
	file := flag.String("file", "", "Excel workbook (.xlsx) to import")
	dsn := flag.String("dsn", "", "MySQL/MariaDB DSN or mysql:// URL to import from")
	table := flag.String("table", "customers", "source table name for -dsn imports")
	sample := flag.String("sample", "", "write a sample workbook to this path and exit")
	flag.Parse()

	if err := run(*dbPath, *file, *dsn, *table, *sample); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(dbPath, file, dsn, table, sample string) error {
	if sample != "" {
		data, err := importer.SampleWorkbook()
		if err != nil {
			return err
		}
		if err := os.WriteFile(sample, data, 0644); err != nil {
			return err
		}
		fmt.Println("sample workbook written to", sample)
		return nil
	}

	ctx := context.Background()

	var rows []importer.Row
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err = importer.ReadWorkbook(f)
		if err != nil {
			return fmt.Errorf("read workbook: %w", err)
		}
	case dsn != "":
		var err error
		rows, err = importer.FetchRowsDSN(ctx, dsn, table)
		if err != nil {
			return fmt.Errorf("fetch rows: %w", err)
		}
	default:
		return fmt.Errorf("one of -file or -dsn is required")
	}

	db, err := dbopen.Open(dbPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(store.Schema+events.Schema),
	)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	st := store.New(db)

	bar := progressbar.Default(int64(len(rows)))
	var report importer.Report
	for _, row := range rows {
		r := importer.ImportRows(ctx, st, []importer.Row{row})
		report.Imported += r.Imported
		report.Errors = append(report.Errors, r.Errors...)
		bar.Add(1)
	}

	fmt.Printf("imported %d customer(s), %d error(s)\n", report.Imported, len(report.Errors))
	for _, e := range report.Errors {
		fmt.Println("  ", e)
	}
	return nil
}
