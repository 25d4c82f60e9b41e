package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats in the order the UI cycles through them
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatXLSX}

// ParseFormat resolves a format name or file extension
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Filename builds a timestamped file name in dir
func Filename(dir, collection string, format Format, now time.Time) string {
	name := fmt.Sprintf("%s_%s.%s", collection, now.Format("20060102_150405"), format)
	return filepath.Join(dir, name)
}

// Export writes the table in the given format
func Export(data *models.TableData, format Format, path string) error {
	if data == nil {
		return fmt.Errorf("nothing to export")
	}
	switch format {
	case FormatCSV:
		return ExportToCSV(data, path)
	case FormatJSON:
		return ExportToJSON(data, path)
	case FormatYAML:
		return ExportToYAML(data, path)
	case FormatXLSX:
		return ExportToXLSX(data, path)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportToCSV writes a header row followed by every row of the table
func ExportToCSV(data *models.TableData, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	if err := writer.Write(data.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportToJSON writes an array of objects whose keys keep the column order
func ExportToJSON(data *models.TableData, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := bufio.NewWriter(file)
	_, _ = w.WriteString("[")
	for i, row := range data.Rows {
		line, err := bson.MarshalExtJSON(rowDocument(data.Columns, row), false, false)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", i, err)
		}
		if i > 0 {
			_, _ = w.WriteString(",")
		}
		_, _ = w.WriteString("\n  ")
		_, _ = w.Write(line)
	}
	_, _ = w.WriteString("\n]\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// ExportToYAML writes a sequence of mappings whose keys keep the column order
func ExportToYAML(data *models.TableData, path string) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range data.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range data.Columns {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cell(row, i)},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	out, err := yaml.Marshal(seq)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// ExportToXLSX writes the table to the first sheet of a workbook
func ExportToXLSX(data *models.TableData, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := make([]any, len(data.Columns))
	for i, c := range data.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for r, row := range data.Rows {
		cellName, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cellName, &values); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", r, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}
	return nil
}

func rowDocument(columns, row []string) bson.D {
	doc := make(bson.D, len(columns))
	for i, col := range columns {
		doc[i] = bson.E{Key: col, Value: cell(row, i)}
	}
	return doc
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
