// Package excel decodes uploaded spreadsheet files into in-memory
// datasets. It reads the first sheet of an xlsx workbook (or a csv
// file) and hands the rows to the core pipeline; all validation
// happens downstream.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"assessment-client/internal/core"
)

// utf8BOM is the byte order mark Windows tools prepend to csv exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDataset decodes an uploaded file into a Dataset of the given
// kind. The format is chosen by file extension: ".csv" is parsed as
// comma-separated text, everything else is treated as an xlsx workbook.
func ReadDataset(r io.Reader, fileName string, kind core.DatasetKind) (*core.Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		rows, err = readCSV(r)
	default:
		rows, err = readWorkbook(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: spreadsheet has no header row", fileName)
	}

	headers := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, padRow(row, len(headers)))
	}

	return &core.Dataset{
		Kind:     kind,
		FileName: fileName,
		Headers:  headers,
		Rows:     data,
	}, nil
}

// readWorkbook reads all rows of the first sheet of an xlsx workbook.
func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("not a valid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("not a valid spreadsheet: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV reads all records of a csv file, tolerating a UTF-8 BOM and
// rows with varying field counts.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("not a valid spreadsheet: %w", err)
	}
	return rows, nil
}

// padRow extends a short row with empty cells to the header width.
// Both excelize and csv decoding can yield rows shorter than the
// header when trailing cells are empty.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
