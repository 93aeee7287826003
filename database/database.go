// Package database, ilişkisel storage varyantı için SQLite bağlantısını ve
// migration sistemini yönetir.
//
// modernc.org/sqlite pure-Go bir driver'dır; blank import ile "sqlite" adıyla
// database/sql'e kayıt olur.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// recoverableErrors, yarım kalmış bir migration tekrar çalıştırıldığında
// atlanabilecek hata pattern'ları.
var recoverableErrors = []string{
	"duplicate column name",
}

// bootstrapTable, schema_migrations boşken mevcut kurulumu tespit etmek için bakılan tablo.
const bootstrapTable = "orders"

// DB, veritabanı bağlantısını saran struct. *sql.DB kendi connection pool'unu yönetir.
type DB struct {
	Conn *sql.DB
	log  *zap.SugaredLogger
}

// New, SQLite dosyasını açar ve migration'ları çalıştırır.
//
// dbPath: SQLite dosya yolu (ör: "./data/masala.db")
// migrationsFS: *.sql dosyalarını kök dizinde içeren fs.FS (embed.FS alt dizini veya os.DirFS)
func New(dbPath string, migrationsFS fs.FS, log *zap.SugaredLogger) (*DB, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys SQLite'ta varsayılan kapalıdır; order_items cascade'i buna bağlı.
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn, log: log.Named("database")}

	if err := db.runMigrations(migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.log.Infow("connected and migrations applied", "path", dbPath)
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// Ping, health check için bağlantıyı doğrular.
func (db *DB) Ping(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

// runMigrations, migrationsFS'teki SQL dosyalarını isim sırasıyla çalıştırır.
// Uygulanan dosyalar schema_migrations tablosuna yazılır ve bir daha çalışmaz.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	// schema_migrations boş ama şema zaten varsa (tracking öncesi kurulum),
	// dosyaları tekrar çalıştırmadan uygulanmış say.
	if len(applied) == 0 {
		var tableCount int
		if err := db.Conn.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", bootstrapTable,
		).Scan(&tableCount); err != nil {
			return fmt.Errorf("failed to check existing tables: %w", err)
		}

		if tableCount > 0 {
			for _, file := range sqlFiles {
				if err := db.recordMigration(file); err != nil {
					return err
				}
			}
			db.log.Infow("bootstrapped existing migrations", "count", len(sqlFiles))
			return nil
		}
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.execStatements(file, string(content)); err != nil {
			return err
		}

		if err := db.recordMigration(file); err != nil {
			return err
		}

		db.log.Infow("migration applied", "file", file)
	}

	return nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	return applied, nil
}

func (db *DB) recordMigration(file string) error {
	if _, err := db.Conn.Exec("INSERT INTO schema_migrations (filename) VALUES (?)", file); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", file, err)
	}
	return nil
}

// execStatements, migration dosyasını statement-by-statement çalıştırır.
// recoverableErrors'a uyan hatalar loglanıp atlanır.
func (db *DB) execStatements(filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Conn.Exec(stmt); err != nil {
			if isRecoverable(err) {
				db.log.Warnw("migration statement skipped", "file", filename, "statement", i+1, "error", err)
				continue
			}
			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}

	return nil
}

func isRecoverable(err error) bool {
	msg := err.Error()
	for _, pattern := range recoverableErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// splitStatements, SQL metnini ';' ile böler. Tek tırnaklı string literal
// içindeki ';' ve '--' satır yorumları bölme noktası sayılmaz.
func splitStatements(src string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for i := 0; i < len(src); i++ {
		ch := src[i]

		if !inString && ch == '-' && i+1 < len(src) && src[i+1] == '-' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		if ch == '\'' {
			if inString && i+1 < len(src) && src[i+1] == '\'' {
				current.WriteString("''")
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return statements
}
