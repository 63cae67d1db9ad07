package controllers

import (
	"errors"
	"strconv"

	"github.com/Dhallagan/indieout-marketplace-sub001/pkg/resp"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogController serves all public storefront reads plus the seller's
// product upkeep endpoints.
type CatalogController struct {
	Svc *services.CatalogService
}

func NewCatalogController(svc *services.CatalogService) *CatalogController {
	return &CatalogController{Svc: svc}
}

// GET /stores
func (h *CatalogController) Stores(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := h.Svc.ListStores(limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /stores/:slug
func (h *CatalogController) StoreBySlug(c *gin.Context) {
	out, err := h.Svc.StoreBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /categories
func (h *CatalogController) Categories(c *gin.Context) {
	out, err := h.Svc.Categories()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /banners
func (h *CatalogController) Banners(c *gin.Context) {
	out, err := h.Svc.Banners()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /products?store_id=&category_id=&limit=
func (h *CatalogController) Products(c *gin.Context) {
	storeID, _ := strconv.Atoi(c.Query("store_id"))
	categoryID, _ := strconv.Atoi(c.Query("category_id"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	out, err := h.Svc.ListProducts(uint(storeID), uint(categoryID), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /products/:id
func (h *CatalogController) Product(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	out, err := h.Svc.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// ----- Seller product upkeep -----

// POST /seller/products
func (h *CatalogController) CreateProduct(c *gin.Context) {
	var req services.ProductIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, err := h.Svc.CreateProduct(utils.CurrentUserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			resp.Forbidden(c, "not your store")
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, p)
}

// PATCH /seller/products/:id
func (h *CatalogController) UpdateProduct(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req services.ProductUpdateIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, err := h.Svc.UpdateProduct(utils.CurrentUserID(c), uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			resp.Forbidden(c, "not your store")
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c)
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, p)
}
