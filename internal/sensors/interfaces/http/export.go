package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"windturbine-api/internal/sensors/application"
	sensors "windturbine-api/internal/sensors/domain"
)

// ExportHandler streams filtered records as CSV, XLSX or PDF. It
// accepts the same query parameters as the record listing endpoint.
type ExportHandler struct {
	records *application.RecordService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(records *application.RecordService) (*ExportHandler, error) {
	if records == nil {
		return nil, errors.New("export handler: nil record service")
	}
	return &ExportHandler{records: records}, nil
}

// ServeHTTP handles /api/export/records.{csv,xlsx,pdf}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var build func([]*sensors.SensorRecord) ([]byte, error)
	var contentType, filename string
	switch r.URL.Path {
	case "/api/export/records.csv":
		build, contentType, filename = buildRecordsCSV, "text/csv", "records.csv"
	case "/api/export/records.xlsx":
		build, contentType, filename = buildRecordsXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "records.xlsx"
	case "/api/export/records.pdf":
		build, contentType, filename = buildRecordsPDF, "application/pdf", "records.pdf"
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	filter, err := parseRecordFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := h.records.GetFiltered(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload, err := build(list)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func buildRecordsCSV(list []*sensors.SensorRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"id", "sensorName", "timestamp", "temperature", "unit"}); err != nil {
		return nil, err
	}
	for _, record := range list {
		row := []string{
			record.ID.String(),
			record.SensorName,
			record.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(record.Reading.Value, 'f', -1, 64),
			string(record.Reading.Unit),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildRecordsXLSX(list []*sensors.SensorRecord) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "records"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Id")
	_ = f.SetCellValue(sheet, "B1", "Sensor")
	_ = f.SetCellValue(sheet, "C1", "Timestamp (UTC)")
	_ = f.SetCellValue(sheet, "D1", "Temperature")
	_ = f.SetCellValue(sheet, "E1", "Unit")
	for i, record := range list {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), record.ID.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), record.SensorName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), record.Timestamp.UTC().Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), record.Reading.Value)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(record.Reading.Unit))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildRecordsPDF(list []*sensors.SensorRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Sensor Records")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Records: %d", len(list)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Sensor", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Timestamp (UTC)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Temperature", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, record := range list {
		pdf.CellFormat(50, 6, record.SensorName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, record.Timestamp.UTC().Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", record.Reading.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, string(record.Reading.Unit), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
