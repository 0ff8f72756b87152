// Package backup serializes the whole store to a portable, human-diffable
// SQL script and restores from one. Import is all-or-nothing: any failing
// statement rolls the store back to its pre-import state.
package backup

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/udharokhata/credit-ledger/internal/schema"
	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
)

// ErrNotSQLFile rejects an import before the store is touched.
var ErrNotSQLFile = errors.New("backup must be a .sql file")

// tables in fixed export order: parents before children, migrations last.
var tables = []string{
	"customers",
	"customer_credits",
	"customer_payments",
	"customer_credit_logs",
	"customer_payment_logs",
	"schema_migrations",
}

type Engine struct {
	db     *sqlite.DB
	schema *schema.Manager
}

func NewEngine(db *sqlite.DB, schemaManager *schema.Manager) *Engine {
	return &Engine{db: db, schema: schemaManager}
}

// Export renders the full store as one SQL script: per table a DELETE
// followed by one INSERT per row, wrapped in a single transaction with
// foreign-key checks off during the load.
func (e *Engine) Export(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("-- credit-ledger backup\n")
	b.WriteString(fmt.Sprintf("-- id: %s, exported: %s\n", uuid.NewString(), time.Now().UTC().Format("2006-01-02 15:04:05")))
	b.WriteString("PRAGMA foreign_keys=OFF;\n")
	b.WriteString("BEGIN;\n")

	for _, table := range tables {
		b.WriteString(fmt.Sprintf("DELETE FROM %s;\n", table))
		if err := e.exportTable(ctx, &b, table); err != nil {
			return "", errors.Wrap(err, "export table "+table)
		}
	}

	b.WriteString("COMMIT;\n")
	b.WriteString("PRAGMA foreign_keys=ON;\n")
	return b.String(), nil
}

func (e *Engine) exportTable(ctx context.Context, b *strings.Builder, table string) error {
	rows, err := e.db.Conn(ctx).Raw("SELECT * FROM " + table).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return err
		}
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = renderValue(v)
		}
		b.WriteString(fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s);\n",
			table, strings.Join(columns, ", "), strings.Join(rendered, ", "),
		))
	}
	return rows.Err()
}

// renderValue turns a scanned column value into an SQL literal. Strings are
// single-quote escaped by doubling, non-finite numbers degrade to NULL,
// booleans become 1/0.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "NULL"
		}
		return formatReal(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case time.Time:
		return quote(val.UTC().Format("2006-01-02 15:04:05"))
	default:
		return quote(fmt.Sprint(val))
	}
}

// formatReal formats floats the way SQLite prints REALs: integral values
// without a trailing ".0" round-trip as the same literal.
func formatReal(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ExportToFile writes the script under dir as
// ledger-backup-YYYY-MM-DD.sql. A failed write leaves no file behind.
func (e *Engine) ExportToFile(ctx context.Context, dir string) (string, error) {
	script, err := e.Export(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("ledger-backup-%s.sql", time.Now().UTC().Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, "write backup file")
	}
	logger.Info("backup exported", "path", path)
	return path, nil
}

// Import executes a backup script inside one transaction. The filename must
// end in .sql; transaction-control and PRAGMA statements in the script are
// dropped because the engine owns the transaction boundary. On any failure
// the transaction rolls back and foreign-key checks are re-enabled, leaving
// the store exactly as it was.
func (e *Engine) Import(ctx context.Context, filename string, script []byte) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".sql") {
		return ErrNotSQLFile
	}

	// A backup written by a newer build may insert columns an older store
	// does not have yet.
	if err := e.schema.EnsureSchema(ctx); err != nil {
		return errors.Wrap(err, "ensure schema before import")
	}

	statements := splitStatements(string(script))

	conn := e.db.Conn(ctx)
	if err := conn.Exec("PRAGMA foreign_keys=OFF").Error; err != nil {
		return err
	}
	defer func() {
		if err := conn.Exec("PRAGMA foreign_keys=ON").Error; err != nil {
			logger.Error("re-enabling foreign keys after import", "error", err)
		}
	}()

	return e.db.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := e.db.Conn(ctx)
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return errors.Wrap(err, "import statement failed")
			}
		}
		return nil
	})
}

func (e *Engine) ImportFile(ctx context.Context, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read backup file")
	}
	return e.Import(ctx, filepath.Base(path), script)
}

// splitStatements breaks a script on semicolons outside single-quoted
// strings (a note containing ';' must not end a statement), drops comment
// lines, and filters out BEGIN/COMMIT/ROLLBACK/PRAGMA.
func splitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	script = strings.Join(lines, "\n")

	var statements []string
	var cur strings.Builder
	inString := false
	for _, r := range script {
		switch {
		case r == '\'':
			inString = !inString
			cur.WriteRune(r)
		case r == ';' && !inString:
			statements = append(statements, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	statements = append(statements, cur.String())

	out := make([]string, 0, len(statements))
	for _, s := range statements {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		upper := strings.ToUpper(s)
		if strings.HasPrefix(upper, "BEGIN") ||
			strings.HasPrefix(upper, "COMMIT") ||
			strings.HasPrefix(upper, "ROLLBACK") ||
			strings.HasPrefix(upper, "PRAGMA") {
			continue
		}
		out = append(out, s)
	}
	return out
}
