package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// csvFile, tek bir CSV dosyasına process içi eşzamanlı erişimi yönetir.
// Yazıcılar mu ile sıralanır; okuyucular birbirini bloklamaz.
type csvFile struct {
	path string
	mu   sync.RWMutex
}

func newCSVFile(dir, name string) *csvFile {
	return &csvFile{path: filepath.Join(dir, name)}
}

// appendRow, dosyanın sonuna tek bir satır ekler. Dosya yoksa oluşturulur.
func (f *csvFile) appendRow(record []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(f.path), err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(record); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(f.path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(f.path), err)
	}

	return file.Close()
}

// readAll, tüm satırları dosya sırasıyla döner. Dosya yoksa boş liste döner.
func (f *csvFile) readAll() ([][]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.readLocked()
}

// update, read-modify-write döngüsünü tek kilit altında çalıştırır ve sonucu
// geçici dosya + rename ile atomik olarak yazar. Yarım yazılmış dosya kalmaz.
func (f *csvFile) update(fn func(rows [][]string) [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := f.readLocked()
	if err != nil {
		return err
	}

	return f.replaceLocked(fn(rows))
}

func (f *csvFile) readLocked() ([][]string, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(f.path), err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Bozuk satır atlanır, geri kalan dosya okunmaya devam eder.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(f.path), err)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

func (f *csvFile) replaceLocked(rows [][]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // rename başarılıysa no-op

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(f.path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", filepath.Base(f.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(f.path), err)
	}

	return nil
}
