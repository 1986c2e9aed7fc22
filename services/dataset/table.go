package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// table is a header plus rows keyed by column, for files whose columns are
// edited generically (profile upserts, appends that follow the file's own header).
type table struct {
	Header []string
	Rows   []map[string]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return &table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &table{Header: header}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = strings.TrimSpace(record[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (t *table) find(match func(row map[string]string) bool) int {
	for i, row := range t.Rows {
		if match(row) {
			return i
		}
	}
	return -1
}

func (t *table) write(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(t.record(row)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (t *table) record(row map[string]string) []string {
	record := make([]string, len(t.Header))
	for i, key := range t.Header {
		record[i] = row[key]
	}
	return record
}

// appendRow appends one row ordered by the header already in the file.
func appendRow(path string, row map[string]string) error {
	t, err := readTable(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := terminateLastLine(path, f); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.record(row)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// terminateLastLine adds the trailing newline hand-edited files often lack.
func terminateLastLine(path string, f *os.File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = f.WriteString("\n")
	}
	return err
}

// EnsureFile creates path with header when it does not exist. An existing
// file missing some of the columns is left alone and reported.
func EnsureFile(path string, header []string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("write header %s: %w", path, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	} else if err != nil {
		return err
	}

	t, err := readTable(path)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		present[h] = true
	}
	var missing []string
	for _, h := range header {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		logrus.WithFields(logrus.Fields{"file": path, "missing": missing}).Warn("csv header is missing columns")
	}
	return nil
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func joinPipe(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := cellString(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "|")
}
