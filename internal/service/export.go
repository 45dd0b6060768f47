package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"travelbook/internal/models"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID", "Customer", "Email", "Tour", "Destination", "Departure",
	"Participants", "Total Price", "Booking Status", "Payment Status", "Created",
}

// Export renders every booking into an xlsx workbook and archives a copy in
// the export directory.
func (s *BookingService) Export(ctx context.Context) ([]byte, error) {
	bookings, err := s.store.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, "A1", "K1", style)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID, b.UserName, b.UserEmail, b.TourName, b.DestinationName,
			b.DepartureDate, b.Participants, b.TotalPrice,
			b.BookingStatus, b.PaymentStatus, b.CreatedAt.Format(models.DateFormat),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "K", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	if s.exportDir != "" {
		if err := s.archiveExport(buf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (s *BookingService) archiveExport(data []byte) error {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(s.exportDir, fileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("save export file: %w", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("bookings export saved")
	return nil
}
