package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type ReportController struct {
	DB  *gorm.DB
	svc *services.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, svc: services.NewReportService(db)}
}

// GetDailyReport -> laporan penjualan satu hari (?date=YYYY-MM-DD)
func (rc *ReportController) GetDailyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("date parameter is required, example: ?date=2025-12-13"))
		return
	}

	report, err := rc.svc.Daily(date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily report", report)
}

// GetSummaryReport -> statistik rentang tanggal (?start_date=&end_date=)
func (rc *ReportController) GetSummaryReport(c *gin.Context) {
	report, err := rc.svc.Summary(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Summary report", report)
}

// exportRows -> baris yang dipakai semua format export
func (rc *ReportController) exportRows(date string) ([][]string, error) {
	orders, err := rc.svc.PaidOrders(date)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"Order ID", "Table", "Payment Method", "Total", "Created At"}}
	for _, order := range orders {
		method := ""
		if order.PaymentMethod != nil {
			method = *order.PaymentMethod
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(order.ID), 10),
			strconv.Itoa(order.Table.TableNumber),
			method,
			utils.FormatCurrencyIDR(order.TotalPrice),
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

// ExportCSV -> export order terbayar satu hari sebagai CSV
func (rc *ReportController) ExportCSV(c *gin.Context) {
	date := c.Query("date")
	rows, err := rc.exportRows(date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.csv", date))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			utils.ErrorLogger.Printf("Error writing CSV row: %v", err)
			return
		}
	}
}

// ExportXLSX -> export order terbayar satu hari sebagai spreadsheet
func (rc *ReportController) ExportXLSX(c *gin.Context) {
	date := c.Query("date")
	rows, err := rc.exportRows(date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.xlsx", date))
	if err := f.Write(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error writing XLSX: %v", err)
	}
}

// ExportPDF -> ringkasan penjualan harian sebagai PDF
func (rc *ReportController) ExportPDF(c *gin.Context) {
	date := c.Query("date")
	report, err := rc.svc.Daily(date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rows, err := rc.exportRows(date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Sales Report %s", date))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total orders: %d", report.Summary.TotalOrders))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total revenue: %s", utils.FormatCurrencyIDR(report.Summary.TotalRevenue)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Average order: %s", utils.FormatCurrencyIDR(report.Summary.AverageOrderValue)))
	pdf.Ln(12)

	colWidths := []float64{25, 20, 35, 50, 50}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range rows[0] {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows[1:] {
		for i, cell := range row {
			pdf.CellFormat(colWidths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.pdf", date))
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error writing PDF: %v", err)
	}
}

// GetRevenueChart -> grafik revenue harian (PNG) untuk dashboard admin
func (rc *ReportController) GetRevenueChart(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))

	points, err := rc.svc.RevenueSeries(days)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	series := chart.TimeSeries{Name: "Revenue"}
	for _, p := range points {
		series.XValues = append(series.XValues, p.Date)
		series.YValues = append(series.YValues, float64(p.Revenue))
	}

	graph := chart.Chart{
		Title:  "Daily Revenue",
		Width:  900,
		Height: 360,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{series},
	}

	c.Header("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error rendering chart: %v", err)
	}
}
