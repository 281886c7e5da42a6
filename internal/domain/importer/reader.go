package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"loan-ledger/internal/pkg/apperrors"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const (
	mimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS      = "application/vnd.ms-excel"
	mimeCSV      = "text/csv"
	mimeCSVAlias = "application/csv"
)

// AllowedContentTypes lists the MIME types accepted for import uploads.
var AllowedContentTypes = []string{mimeXLSX, mimeXLS, mimeCSV, mimeCSVAlias}

// Row is one data line of a spreadsheet keyed by normalized header name.
// Number is the 1-based line number in the source file.
type Row struct {
	Number int
	Values map[string]string
}

func (r Row) Get(key string) string {
	return strings.TrimSpace(r.Values[key])
}

// DetectFormat picks the reader by file extension, falling back to the
// declared content type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".xls":
		return "", fmt.Errorf("%w: legacy .xls workbooks are not supported, save the file as .xlsx", apperrors.ErrInvalidArgument)
	}

	switch contentType {
	case mimeXLSX:
		return FormatXLSX, nil
	case mimeCSV, mimeCSVAlias:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: cannot determine spreadsheet format of %q", apperrors.ErrInvalidArgument, filename)
}

func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func ReadRows(r io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported spreadsheet format %q", apperrors.ErrInvalidArgument, format)
	}
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", apperrors.ErrInvalidArgument, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrInvalidArgument)
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", apperrors.ErrInvalidArgument, sheets[0], err)
	}

	b := &rowBuilder{}
	for i, record := range records {
		b.add(i+1, record)
	}
	return b.rows, nil
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	b := &rowBuilder{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse CSV: %w", apperrors.ErrInvalidArgument, err)
		}
		line, _ := cr.FieldPos(0)
		b.add(line, record)
	}
	return b.rows, nil
}

// rowBuilder treats the first non-blank record as the header and skips
// blank records after it.
type rowBuilder struct {
	header []string
	rows   []Row
}

func (b *rowBuilder) add(number int, record []string) {
	if isBlank(record) {
		return
	}
	if b.header == nil {
		b.header = make([]string, len(record))
		for i, h := range record {
			b.header[i] = NormalizeHeader(h)
		}
		return
	}

	values := make(map[string]string, len(b.header))
	for i, key := range b.header {
		if key == "" || i >= len(record) {
			continue
		}
		values[key] = record[i]
	}
	b.rows = append(b.rows, Row{Number: number, Values: values})
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
