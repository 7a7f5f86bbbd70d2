// Package taskreport renders a task list and its statistics to an xlsx
// workbook. The column layout is configurable, either in code or from a
// YAML document.
package taskreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"github.com/taskcore/taskmanager/internal/domain"
)

type ColumnConfig struct {
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

type Layout struct {
	SheetName string         `yaml:"sheet_name"`
	Title     string         `yaml:"title"`
	Columns   []ColumnConfig `yaml:"columns"`
}

var knownFields = map[string]bool{
	"id":           true,
	"title":        true,
	"description":  true,
	"status":       true,
	"created_date": true,
}

func DefaultLayout() Layout {
	return Layout{
		SheetName: "Tasks",
		Title:     "Task Report",
		Columns: []ColumnConfig{
			{Field: "id", Header: "ID", Width: 8},
			{Field: "title", Header: "Title", Width: 30},
			{Field: "description", Header: "Description", Width: 50},
			{Field: "status", Header: "Status", Width: 12},
			{Field: "created_date", Header: "Created", Width: 20},
		},
	}
}

// LayoutFromYAML parses a layout document and rejects unknown fields,
// so a typo in a config file fails loudly instead of producing an empty
// column.
func LayoutFromYAML(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse report layout: %w", err)
	}
	if layout.SheetName == "" {
		layout.SheetName = "Tasks"
	}
	if len(layout.Columns) == 0 {
		return Layout{}, fmt.Errorf("report layout has no columns")
	}
	for _, col := range layout.Columns {
		if !knownFields[col.Field] {
			return Layout{}, fmt.Errorf("report layout references unknown field %q", col.Field)
		}
	}
	return layout, nil
}

// Write renders a summary section followed by one row per task.
func Write(w io.Writer, tasks []domain.Task, stats *domain.TaskStats, layout Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := layout.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	row := 1
	if layout.Title != "" {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, cell, layout.Title)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		row += 2
	}

	if stats != nil {
		summary := [][2]any{
			{"Total", stats.Total},
			{"Pending", stats.Pending},
			{"Completed", stats.Completed},
			{"Created today", stats.CreatedToday},
		}
		for _, entry := range summary {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry[0])
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry[1])
			row++
		}
		row++
	}

	headerRow := row
	for i, col := range layout.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		cell := fmt.Sprintf("%s%d", name, headerRow)
		f.SetCellValue(sheet, cell, col.Header)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		if col.Width > 0 {
			f.SetColWidth(sheet, name, name, col.Width)
		}
	}
	row++

	for _, task := range tasks {
		for i, col := range layout.Columns {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return fmt.Errorf("column name: %w", err)
			}
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", name, row), fieldValue(task, col.Field))
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fieldValue(task domain.Task, field string) any {
	switch field {
	case "id":
		return task.ID
	case "title":
		return task.Title
	case "description":
		return task.Description
	case "status":
		return task.Status
	case "created_date":
		return task.CreatedDate.Format(domain.DateLayout)
	default:
		return ""
	}
}
