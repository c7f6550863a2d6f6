package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
)

// ReportService membuat proyeksi read-only atas order yang sudah dibayar.
// "Dibayar" berarti punya baris Payment success; order yang sudah disajikan
// setelah bayar berstatus served, jadi filter status saja tidak cukup.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type ReportSummary struct {
	TotalOrders       int64 `json:"total_orders"`
	TotalRevenue      int64 `json:"total_revenue"`
	AverageOrderValue int64 `json:"average_order_value"`
}

type TableRevenue struct {
	Revenue int64 `json:"revenue"`
	Orders  int64 `json:"orders"`
}

type ItemSales struct {
	MenuID   uint   `json:"menu_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
	Category string `json:"category"`
}

type MethodRevenue struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"`
}

type CategoryRevenue struct {
	Revenue   int64 `json:"revenue"`
	ItemsSold int   `json:"items_sold"`
}

type DailyReport struct {
	Date            string                  `json:"date"`
	Summary         ReportSummary           `json:"summary"`
	RevenueByMethod map[string]int64        `json:"revenue_by_method"`
	RevenueByTable  map[string]TableRevenue `json:"revenue_by_table"`
	TopItems        []ItemSales             `json:"top_items"`
}

type SummaryReport struct {
	StartDate         string                     `json:"start_date"`
	EndDate           string                     `json:"end_date"`
	Summary           ReportSummary              `json:"summary"`
	RevenueByMethod   map[string]MethodRevenue   `json:"revenue_by_method"`
	RevenueByCategory map[string]CategoryRevenue `json:"revenue_by_category"`
	Inventory         struct {
		TotalMenuItems  int64 `json:"total_menu_items"`
		TotalCategories int64 `json:"total_categories"`
		TotalTables     int64 `json:"total_tables"`
	} `json:"inventory"`
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseReportDate memvalidasi format YYYY-MM-DD
func ParseReportDate(s string) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, errors.New("invalid date format, use: YYYY-MM-DD")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", s)
	}
	return t, nil
}

// paidOrders -> semua order dengan Payment success dalam rentang waktu
func (s *ReportService) paidOrders(start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Table").
		Preload("OrderItems").
		Preload("OrderItems.Menu").
		Preload("OrderItems.Menu.Category").
		Preload("Payments").
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("id IN (?)", s.db.Model(&models.Payment{}).
			Select("order_id").
			Where("status = ?", models.PaymentStatusSuccess)).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// Daily -> laporan penjualan satu hari
func (s *ReportService) Daily(date string) (*DailyReport, error) {
	day, err := ParseReportDate(date)
	if err != nil {
		return nil, err
	}
	orders, err := s.paidOrders(day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := &DailyReport{
		Date:            date,
		RevenueByMethod: make(map[string]int64),
		RevenueByTable:  make(map[string]TableRevenue),
	}

	itemSales := make(map[uint]*ItemSales)
	for _, order := range orders {
		report.Summary.TotalOrders++
		report.Summary.TotalRevenue += order.TotalPrice

		method := "unknown"
		if order.PaymentMethod != nil {
			method = *order.PaymentMethod
		}
		report.RevenueByMethod[method] += order.TotalPrice

		tableKey := fmt.Sprintf("%d", order.Table.TableNumber)
		tr := report.RevenueByTable[tableKey]
		tr.Revenue += order.TotalPrice
		tr.Orders++
		report.RevenueByTable[tableKey] = tr

		for _, item := range order.OrderItems {
			sale, ok := itemSales[item.MenuID]
			if !ok {
				sale = &ItemSales{
					MenuID:   item.MenuID,
					Name:     item.MenuName, // snapshot, tahan terhadap arsip menu
					Category: categoryName(item.Menu),
				}
				itemSales[item.MenuID] = sale
			}
			sale.Quantity += item.Quantity
			sale.Revenue += item.Subtotal()
		}
	}

	if report.Summary.TotalOrders > 0 {
		report.Summary.AverageOrderValue = report.Summary.TotalRevenue / report.Summary.TotalOrders
	}

	for _, sale := range itemSales {
		report.TopItems = append(report.TopItems, *sale)
	}
	sort.Slice(report.TopItems, func(i, j int) bool {
		return report.TopItems[i].Quantity > report.TopItems[j].Quantity
	})
	if len(report.TopItems) > 10 {
		report.TopItems = report.TopItems[:10]
	}
	return report, nil
}

// Summary -> statistik rentang tanggal (default 30 hari terakhir)
func (s *ReportService) Summary(startDate, endDate string) (*SummaryReport, error) {
	end := time.Now()
	if endDate != "" {
		parsed, err := ParseReportDate(endDate)
		if err != nil {
			return nil, err
		}
		end = parsed.AddDate(0, 0, 1)
	}
	start := end.AddDate(0, 0, -30)
	if startDate != "" {
		parsed, err := ParseReportDate(startDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}

	orders, err := s.paidOrders(start, end)
	if err != nil {
		return nil, err
	}

	report := &SummaryReport{
		StartDate:         start.Format("2006-01-02"),
		EndDate:           end.Format("2006-01-02"),
		RevenueByMethod:   make(map[string]MethodRevenue),
		RevenueByCategory: make(map[string]CategoryRevenue),
	}

	for _, order := range orders {
		report.Summary.TotalOrders++
		report.Summary.TotalRevenue += order.TotalPrice

		method := "unknown"
		if order.PaymentMethod != nil {
			method = *order.PaymentMethod
		}
		mr := report.RevenueByMethod[method]
		mr.Count++
		mr.Revenue += order.TotalPrice
		report.RevenueByMethod[method] = mr

		for _, item := range order.OrderItems {
			cat := categoryName(item.Menu)
			cr := report.RevenueByCategory[cat]
			cr.Revenue += item.Subtotal()
			cr.ItemsSold += item.Quantity
			report.RevenueByCategory[cat] = cr
		}
	}
	if report.Summary.TotalOrders > 0 {
		report.Summary.AverageOrderValue = report.Summary.TotalRevenue / report.Summary.TotalOrders
	}

	s.db.Model(&models.Menu{}).Count(&report.Inventory.TotalMenuItems)
	s.db.Model(&models.MenuCategory{}).Count(&report.Inventory.TotalCategories)
	s.db.Model(&models.Table{}).Count(&report.Inventory.TotalTables)

	return report, nil
}

// PaidOrders diekspos untuk export CSV/XLSX/PDF
func (s *ReportService) PaidOrders(date string) ([]models.Order, error) {
	day, err := ParseReportDate(date)
	if err != nil {
		return nil, err
	}
	return s.paidOrders(day, day.AddDate(0, 0, 1))
}

// DailyRevenuePoint untuk grafik penjualan
type DailyRevenuePoint struct {
	Date    time.Time
	Revenue int64
}

// RevenueSeries -> revenue per hari selama n hari terakhir
func (s *ReportService) RevenueSeries(days int) ([]DailyRevenuePoint, error) {
	if days <= 0 {
		days = 14
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	orders, err := s.paidOrders(start, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64)
	for _, order := range orders {
		byDay[order.CreatedAt.Format("2006-01-02")] += order.TotalPrice
	}

	points := make([]DailyRevenuePoint, 0, days)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		points = append(points, DailyRevenuePoint{
			Date:    d,
			Revenue: byDay[d.Format("2006-01-02")],
		})
	}
	return points, nil
}

func categoryName(menu *models.Menu) string {
	if menu == nil || menu.Category == nil {
		return "Uncategorized"
	}
	return menu.Category.Name
}
