package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/pkg/export"
)

type planProvider interface {
	GetPlan(ctx context.Context, eventID string, channel models.AssignmentChannel) (*dto.SeatingPlan, error)
}

// ExportService renders the seating plan as CSV or PDF.
type ExportService struct {
	plans  planProvider
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(plans planProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		plans:  plans,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

func planDataset(plan *dto.SeatingPlan) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Table", "Number", "Group", "Capacity", "Occupied", "Guest", "Seats", "Locked"},
	}
	tableCells := func(t dto.PlanTable) map[string]string {
		return map[string]string{
			"Table":    t.Name,
			"Number":   strconv.Itoa(t.Number),
			"Group":    t.GroupName,
			"Capacity": strconv.Itoa(t.Capacity),
			"Occupied": strconv.Itoa(t.Occupied),
		}
	}
	for _, t := range plan.Tables {
		if len(t.Guests) == 0 {
			data.Rows = append(data.Rows, tableCells(t))
			continue
		}
		for _, g := range t.Guests {
			row := tableCells(t)
			row["Guest"] = g.GuestName
			row["Seats"] = strconv.Itoa(g.Seats)
			if g.Locked {
				row["Locked"] = "yes"
			}
			data.Rows = append(data.Rows, row)
		}
	}
	return data
}

// SeatingChartCSV renders the channel's plan as a CSV document.
func (s *ExportService) SeatingChartCSV(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]byte, error) {
	plan, err := s.plans.GetPlan(ctx, eventID, channel)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(planDataset(plan))
}

// SeatingChartPDF renders the channel's plan as a printable PDF.
func (s *ExportService) SeatingChartPDF(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]byte, error) {
	plan, err := s.plans.GetPlan(ctx, eventID, channel)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Seating Chart (%s)", channel)
	return s.pdf.Render(planDataset(plan), title)
}
