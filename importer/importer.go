// Package importer loads customer records into the store from Excel
// workbooks and external MySQL/MariaDB tables. Validation is per-row: a bad
// row is reported and skipped, never aborting the rest of the batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

// Row is one customer row as read from an import source. Line is the
// 1-based source line (or record number) used in error messages.
type Row struct {
	Line     int
	Name     string
	Email    string
	Phone    string
	Location string
	JoinDate string
}

// Report summarises an import run.
type Report struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// ImportRows validates and inserts rows one by one. Rows missing name or
// email, or whose email already exists, are reported in the Report and
// skipped.
func ImportRows(ctx context.Context, s *store.Store, rows []Row) Report {
	report := Report{Errors: []string{}}
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		email := strings.TrimSpace(row.Email)
		if name == "" || email == "" {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Row %d: missing required fields (name or email)", row.Line))
			continue
		}

		c := engine.Customer{
			Name:     name,
			Email:    email,
			Phone:    strings.TrimSpace(row.Phone),
			Location: strings.TrimSpace(row.Location),
			JoinDate: parseJoinDate(row.JoinDate),
		}
		if err := s.AddCustomer(ctx, &c); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Row %d: email %s already exists", row.Line, strings.ToLower(email)))
				continue
			}
			report.Errors = append(report.Errors,
				fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}
		report.Imported++
	}
	return report
}

// parseJoinDate accepts "2006-01-02" with an optional time suffix. Anything
// unparseable yields a zero time; the store then defaults to today.
func parseJoinDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
