package export

import (
	"fmt"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type xlsxExporter struct{}

func NewXLSXExporter() contracts.Exporter {
	return &xlsxExporter{}
}

// BuildWorkbook writes one header row and one row per record. Records must
// already be masked for the caller; the exporter never sees raw documents.
func (e *xlsxExporter) BuildWorkbook(sheetName string, columns []contracts.ExportColumn, records []map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, exceptions.ErrExportWorkbook(err)
	}
	f.SetActiveSheet(index)
	if sheetName != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, exceptions.ErrExportWorkbook(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, exceptions.ErrExportWorkbook(err)
	}

	for col, column := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, exceptions.ErrExportWorkbook(err)
		}
		if err := f.SetCellValue(sheetName, cell, column.Header); err != nil {
			return nil, exceptions.ErrExportWorkbook(err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, exceptions.ErrExportWorkbook(err)
		}
	}

	for rowIdx, record := range records {
		for col, column := range columns {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, exceptions.ErrExportWorkbook(err)
			}
			value, _ := utils.LookupPath(record, column.Path)
			if err := f.SetCellValue(sheetName, cell, cellValue(value)); err != nil {
				return nil, exceptions.ErrExportWorkbook(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, exceptions.ErrExportWorkbook(err)
	}
	return buf.Bytes(), nil
}

func cellValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		return ""
	default:
		return v
	}
}
