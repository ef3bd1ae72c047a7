package importer

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLSource describes an external MySQL/MariaDB table to import from.
type MySQLSource struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	Table    string `json:"table"`
}

// tableNamePattern whitelists table identifiers, since table names cannot be
// bound as query parameters.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func (s MySQLSource) dsn() (string, error) {
	if s.User == "" || s.Host == "" || s.Database == "" {
		return "", fmt.Errorf("importer: mysql source needs host, user and database")
	}
	host := s.Host
	if !strings.Contains(host, ":") {
		host += ":3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", s.User, s.Password, host, s.Database), nil
}

// ParseDSN converts a mysql:// or mariadb:// URL into the driver's DSN
// format. Plain driver DSNs pass through unchanged.
func ParseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mysql://") && !strings.HasPrefix(dsn, "mariadb://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("importer: parse dsn: %w", err)
	}
	user := ""
	pass := ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || u.Host == "" || db == "" {
		return "", fmt.Errorf("importer: dsn missing user, host or database")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, pass, u.Host, db), nil
}

// OpenMySQL opens a connection pool against the DSN (driver format or
// mysql://-style URL).
func OpenMySQL(dsn string) (*sql.DB, error) {
	driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("importer: open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// TestMySQL verifies the source is reachable.
func TestMySQL(ctx context.Context, src MySQLSource) error {
	dsn, err := src.dsn()
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("importer: open mysql: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("importer: ping: %w", err)
	}
	return nil
}

// FetchMySQLRows reads every row of the source table, mapping recognised
// columns (name, email, phone, location, joinDate / join_date,
// case-insensitive) into Rows. Lines are numbered from 1.
func FetchMySQLRows(ctx context.Context, src MySQLSource) ([]Row, error) {
	if !tableNamePattern.MatchString(src.Table) {
		return nil, fmt.Errorf("importer: invalid table name %q", src.Table)
	}
	dsn, err := src.dsn()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("importer: open mysql: %w", err)
	}
	defer db.Close()
	return fetchRows(ctx, db, src.Table)
}

// FetchRowsDSN is FetchMySQLRows for a raw DSN (driver format or
// mysql://-style URL), used by the import CLI.
func FetchRowsDSN(ctx context.Context, dsn, table string) ([]Row, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("importer: invalid table name %q", table)
	}
	db, err := OpenMySQL(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return fetchRows(ctx, db, table)
}

func fetchRows(ctx context.Context, db *sql.DB, table string) ([]Row, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("importer: query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[normalizeHeader(c)] = i
	}

	var out []Row
	line := 0
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("importer: scan %s: %w", table, err)
		}
		get := func(name string) string {
			i, ok := index[name]
			if !ok || !values[i].Valid {
				return ""
			}
			return values[i].String
		}
		line++
		out = append(out, Row{
			Line:     line,
			Name:     get("name"),
			Email:    get("email"),
			Phone:    get("phone"),
			Location: get("location"),
			JoinDate: get("joindate"),
		})
	}
	return out, rows.Err()
}
