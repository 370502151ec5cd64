package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/resp"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
	"github.com/designxpo/PoonamCosmetics-sub001/utils"
)

// ProductController serves the catalog browse surface; the lookups are
// plain parameterized queries, so it talks to the repositories directly.
type ProductController struct {
	products *repository.ProductRepository
	catalog  *repository.CatalogRepository
}

func NewProductController(products *repository.ProductRepository, catalog *repository.CatalogRepository) *ProductController {
	return &ProductController{products: products, catalog: catalog}
}

// GET /api/products?category=&brand=&search=&page=&limit=
func (pc *ProductController) List(c *gin.Context) {
	f := repository.ProductFilter{Search: c.Query("search")}
	if v := c.Query("category"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			resp.BadRequest(c, "invalid category id")
			return
		}
		f.Category = &id
	}
	if v := c.Query("brand"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			resp.BadRequest(c, "invalid brand id")
			return
		}
		f.Brand = &id
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))

	products, total, err := pc.products.List(c.Request.Context(), f)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"products": products, "total": total, "page": f.Page, "limit": f.Limit})
}

// GET /api/products/slug/:slug
func (pc *ProductController) GetBySlug(c *gin.Context) {
	product, err := pc.products.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"product": product})
}

// GET /api/brands
func (pc *ProductController) ListBrands(c *gin.Context) {
	brands, err := pc.catalog.ListBrands(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"brands": brands})
}

// GET /api/categories
func (pc *ProductController) ListCategories(c *gin.Context) {
	categories, err := pc.catalog.ListCategories(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"categories": categories})
}

type CreateProductReq struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	MRP         float64  `json:"mrp"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
}

// POST /api/admin/products (admin)
func (pc *ProductController) Create(c *gin.Context) {
	var req CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	now := time.Now()
	p := &entity.Product{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Price:       req.Price,
		MRP:         req.MRP,
		Images:      req.Images,
		Stock:       req.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Brand != "" {
		id, err := primitive.ObjectIDFromHex(req.Brand)
		if err != nil {
			resp.BadRequest(c, "invalid brand id")
			return
		}
		p.Brand = &id
	}
	if req.Category != "" {
		id, err := primitive.ObjectIDFromHex(req.Category)
		if err != nil {
			resp.BadRequest(c, "invalid category id")
			return
		}
		p.Category = &id
	}

	if err := pc.products.Create(c.Request.Context(), p); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"product": p})
}

type UpdateProductReq struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	MRP         *float64  `json:"mrp"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	IsActive    *bool     `json:"isActive"`
}

// PUT /api/admin/products/:id (admin)
func (pc *ProductController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid product id")
		return
	}
	var req UpdateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
		set["slug"] = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			resp.BadRequest(c, "price must be positive")
			return
		}
		set["price"] = *req.Price
	}
	if req.MRP != nil {
		set["mrp"] = *req.MRP
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	product, err := pc.products.Update(c.Request.Context(), id, set)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"product": product})
}

type CreateBrandReq struct {
	Name string `json:"name" binding:"required"`
	Logo string `json:"logo"`
}

// POST /api/admin/brands (admin)
func (pc *ProductController) CreateBrand(c *gin.Context) {
	var req CreateBrandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	now := time.Now()
	b := &entity.Brand{Name: req.Name, Slug: utils.Slugify(req.Name), Logo: req.Logo, CreatedAt: now, UpdatedAt: now}
	if err := pc.catalog.CreateBrand(c.Request.Context(), b); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"brand": b})
}

type CreateCategoryReq struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// POST /api/admin/categories (admin)
func (pc *ProductController) CreateCategory(c *gin.Context) {
	var req CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	now := time.Now()
	cat := &entity.Category{Name: req.Name, Slug: utils.Slugify(req.Name), Image: req.Image, CreatedAt: now, UpdatedAt: now}
	if err := pc.catalog.CreateCategory(c.Request.Context(), cat); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"category": cat})
}
