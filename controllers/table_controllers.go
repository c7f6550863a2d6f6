package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/kds"
	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru, QR code digenerate dari nomor meja
func (tc *TableController) CreateTable(c *gin.Context) {
	var body struct {
		TableNumber int   `json:"table_number" binding:"required,gt=0"`
		IsActive    *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Nomor meja harus unik
	var existing int64
	tc.DB.Model(&models.Table{}).Where("table_number = ?", body.TableNumber).Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("table number already exists"))
		return
	}

	qr, err := utils.GenerateTableQR(body.TableNumber)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	table := models.Table{
		TableNumber: body.TableNumber,
		IsActive:    true,
		QRCode:      qr,
	}
	if body.IsActive != nil {
		table.IsActive = *body.IsActive
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableEvent(kds.EventTableCreate, &table)
	utils.InfoLogger.Printf("New table created: %d (active=%v)", table.TableNumber, table.IsActive)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja (admin)
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByNumber -> lookup publik untuk landing page QR; hanya meja aktif
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil || !table.IsActive {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> ubah nomor meja (QR ikut digenerate ulang) atau status aktif
func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, paramID(c, "table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		TableNumber *int  `json:"table_number"`
		IsActive    *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.TableNumber != nil && *body.TableNumber != table.TableNumber {
		if *body.TableNumber <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table number must be positive"))
			return
		}
		var existing int64
		tc.DB.Model(&models.Table{}).Where("table_number = ?", *body.TableNumber).Count(&existing)
		if existing > 0 {
			utils.RespondError(c, http.StatusConflict, errors.New("table number already exists"))
			return
		}

		qr, err := utils.GenerateTableQR(*body.TableNumber)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		table.TableNumber = *body.TableNumber
		table.QRCode = qr
	}
	if body.IsActive != nil {
		table.IsActive = *body.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableEvent(kds.EventTableUpdate, &table)
	utils.InfoLogger.Printf("Table %d updated (active=%v)", table.TableNumber, table.IsActive)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, paramID(c, "table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableEvent(kds.EventTableDelete, &table)
	utils.InfoLogger.Printf("Table %d deleted", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}
