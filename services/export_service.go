package services

import (
	"context"
	"fmt"
	"io"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name of a tree export
const ExportSheet = "Trees"

// TreeExportHeader is the header row of a tree export
var TreeExportHeader = []string{
	"ID",
	"Species",
	"Common Name",
	"Cultivar",
	"Latitude",
	"Longitude",
	"Height (m)",
	"DBH (cm)",
	"Canopy Spread (m)",
	"Health Status",
	"Risk Rating",
	"Address",
	"QR Code",
	"NFC Tag",
	"Reference ID",
	"Property ID",
	"Zone ID",
	"Created At",
	"Updated At",
}

var treeExportWidths = []float64{38, 28, 24, 18, 12, 12, 11, 11, 17, 14, 12, 40, 16, 16, 16, 38, 38, 20, 20}

// TreeLister lists live trees
type TreeLister interface {
	List(ctx context.Context, filter dto.TreeFilter) ([]models.Tree, error)
}

// ExportService writes tree inventories as spreadsheets
type ExportService struct {
	trees TreeLister
}

// NewExportService creates a new export service instance
func NewExportService(trees TreeLister) *ExportService {
	return &ExportService{trees: trees}
}

// WriteTrees streams an xlsx workbook of every live tree matching filter to w
func (s *ExportService) WriteTrees(ctx context.Context, w io.Writer, filter dto.TreeFilter) error {
	trees, err := s.trees.List(ctx, filter)
	if err != nil {
		return err
	}

	f, err := BuildTreeWorkbook(trees)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildTreeWorkbook lays trees out one per row under a styled header
func BuildTreeWorkbook(trees []models.Tree) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#2E7D32"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &TreeExportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(TreeExportHeader))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(ExportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range treeExportWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ExportSheet, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetPanes(ExportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	for i, tree := range trees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := treeRow(tree)
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func treeRow(t models.Tree) []interface{} {
	return []interface{}{
		t.ID,
		t.Species,
		str(t.CommonName),
		str(t.Cultivar),
		num(t.Latitude),
		num(t.Longitude),
		num(t.HeightM),
		num(t.DbhCm),
		num(t.CanopySpreadM),
		string(t.HealthStatus),
		t.RiskRating,
		str(t.Address),
		str(t.QRCode),
		str(t.NFCTag),
		str(t.ReferenceID),
		str(t.PropertyID),
		str(t.ZoneID),
		t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		t.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func str(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func num(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
