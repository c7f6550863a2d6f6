package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> listing menu untuk customer/admin.
// Default hanya item available dan tidak diarsip.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	q := mc.DB.Preload("Category").Order("created_at DESC")

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		q = q.Where("category_id = ?", uint(id))
	}
	if c.Query("only_available") != "false" {
		q = q.Where("is_available = ?", true)
	}
	if c.Query("include_archived") != "true" {
		q = q.Where("is_archived = ?", false)
	}

	var menus []models.Menu
	if err := q.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, paramID(c, "menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu -> admin menambahkan item menu baru
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		CategoryID  *uint   `json:"category_id"`
		Name        string  `json:"name" binding:"required,min=2,max=150"`
		Price       int64   `json:"price" binding:"required,gte=0"`
		Stock       int     `json:"stock" binding:"gte=0"`
		IsAvailable *bool   `json:"is_available"`
		Description string  `json:"description"`
		ImageUrl    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		var category models.MenuCategory
		if err := mc.DB.First(&category, *body.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
			return
		}
	}

	menu := models.Menu{
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Price:       body.Price,
		Stock:       body.Stock,
		IsAvailable: true,
		Description: body.Description,
		ImageUrl:    body.ImageUrl,
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu created: %s (price=%s, stock=%d)",
		menu.Name, utils.FormatCurrencyIDR(menu.Price), menu.Stock)
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> update parsial; stok di sini adalah restock/koreksi admin,
// bukan reservasi (reservasi hanya lewat lifecycle order).
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.First(&menu, paramID(c, "menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		CategoryID  *uint   `json:"category_id"`
		Name        *string `json:"name"`
		Price       *int64  `json:"price"`
		Stock       *int    `json:"stock"`
		IsAvailable *bool   `json:"is_available"`
		IsArchived  *bool   `json:"is_archived"`
		Description *string `json:"description"`
		ImageUrl    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		var category models.MenuCategory
		if err := mc.DB.First(&category, *body.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
			return
		}
		menu.CategoryID = body.CategoryID
	}
	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Price != nil {
		if *body.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be >= 0"))
			return
		}
		menu.Price = *body.Price
	}
	if body.Stock != nil {
		if *body.Stock < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("stock must be >= 0"))
			return
		}
		menu.Stock = *body.Stock
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}
	if body.IsArchived != nil {
		menu.IsArchived = *body.IsArchived
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.ImageUrl != nil {
		menu.ImageUrl = body.ImageUrl
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> soft archive. Baris menu tidak pernah dihapus fisik supaya
// order lama tetap bisa menampilkan snapshot-nya.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.First(&menu, paramID(c, "menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	menu.IsArchived = true
	menu.IsAvailable = false
	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu archived: %s", menu.Name)
	utils.RespondJSON(c, http.StatusOK, "Menu archived", gin.H{"menu_id": menu.ID})
}
