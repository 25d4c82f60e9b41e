package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

func testTable() *models.TableData {
	return &models.TableData{
		Columns: []string{"name", "city", "note"},
		Rows: [][]string{
			{"Alice", "Oslo", `commas, quotes "and" more`},
			{"Bob", "", "42"},
		},
		TotalRows: 2,
	}
}

func TestExportToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ExportToCSV(testTable(), path); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if !slicesEqual(records[0], []string{"name", "city", "note"}) {
		t.Errorf("Header mismatch: %v", records[0])
	}
	if records[1][2] != `commas, quotes "and" more` {
		t.Errorf("Expected quoted note to round trip, got '%s'", records[1][2])
	}
}

func TestExportToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ExportToJSON(testTable(), path); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}

	var parsed []map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(parsed) != 2 || parsed[0]["city"] != "Oslo" || parsed[1]["note"] != "42" {
		t.Errorf("Unexpected JSON rows: %v", parsed)
	}

	// keys keep the column order
	first := strings.Index(string(data), `"name"`)
	second := strings.Index(string(data), `"city"`)
	if first < 0 || second < first {
		t.Error("JSON keys should follow the column order")
	}
}

func TestExportToYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := ExportToYAML(testTable(), path); err != nil {
		t.Fatalf("ExportToYAML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read YAML: %v", err)
	}

	var parsed []map[string]string
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if len(parsed) != 2 || parsed[1]["name"] != "Bob" || parsed[1]["note"] != "42" {
		t.Errorf("Unexpected YAML rows: %v", parsed)
	}
}

func TestExportToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := ExportToXLSX(testTable(), path); err != nil {
		t.Fatalf("ExportToXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open XLSX: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "name" || rows[2][0] != "Bob" {
		t.Errorf("Unexpected XLSX rows: %v", rows)
	}
}

func TestExportEmptyTable(t *testing.T) {
	tmpDir := t.TempDir()
	empty := &models.TableData{Columns: []string{"a"}}

	csvPath := filepath.Join(tmpDir, "empty.csv")
	if err := ExportToCSV(empty, csvPath); err != nil {
		t.Fatalf("ExportToCSV with empty table failed: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if string(data) != "a\n" {
		t.Errorf("Expected only the header, got %q", data)
	}

	jsonPath := filepath.Join(tmpDir, "empty.json")
	if err := ExportToJSON(empty, jsonPath); err != nil {
		t.Fatalf("ExportToJSON with empty table failed: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}
	var parsed []map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(parsed) != 0 {
		t.Errorf("Expected 0 rows, got %d", len(parsed))
	}
}

func TestExportDispatch(t *testing.T) {
	if err := Export(nil, FormatCSV, "x"); err == nil {
		t.Error("Export(nil) should fail")
	}

	for _, in := range []string{"csv", ".JSON", "yml", "xlsx"} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) should fail")
	}

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if got := Filename("/tmp", "orders", FormatXLSX, now); got != "/tmp/orders_20240506_070809.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}

// Helper function to compare slices
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
