package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
	"github.com/example/primepulse/pkg/service"
)

type productRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	Quantity      int64    `json:"quantity" binding:"required,gt=0"`
	Images        []string `json:"images"`
	CategoryID    string   `json:"category_id" binding:"required"`
	SubCategoryID string   `json:"sub_category_id" binding:"required"`
}

type productUpdateRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"omitempty,gt=0"`
	Quantity      int64    `json:"quantity" binding:"omitempty,gt=0"`
	Images        []string `json:"images"`
	CategoryID    string   `json:"category_id"`
	SubCategoryID string   `json:"sub_category_id"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	categoryID, ok := objectIDField(c, req.CategoryID)
	if !ok {
		return
	}
	subCategoryID, ok := objectIDField(c, req.SubCategoryID)
	if !ok {
		return
	}

	product, err := s.products.Create(c.Request.Context(), currentSubject(c), service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Images:        req.Images,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Product created successfully", product)
}

func (s *Server) listProducts(c *gin.Context) {
	q := pageQuery(c, 20)
	products, total, err := s.products.List(c.Request.Context(), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Products retrieved successfully", repository.NewPage(products, total, q))
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	product, err := s.products.Get(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product retrieved successfully", product)
}

func (s *Server) listProductsByCategory(c *gin.Context) {
	categoryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	q := pageQuery(c, 20)
	products, total, err := s.products.ListByCategory(c.Request.Context(), categoryID, q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Products retrieved successfully", repository.NewPage(products, total, q))
}

func (s *Server) listProductsBySubCategory(c *gin.Context) {
	subCategoryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	q := pageQuery(c, 20)
	products, total, err := s.products.ListBySubCategory(c.Request.Context(), subCategoryID, q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Products retrieved successfully", repository.NewPage(products, total, q))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	in := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Images:      req.Images,
	}
	if req.CategoryID != "" {
		categoryID, ok := objectIDField(c, req.CategoryID)
		if !ok {
			return
		}
		in.CategoryID = categoryID
	}
	if req.SubCategoryID != "" {
		subCategoryID, ok := objectIDField(c, req.SubCategoryID)
		if !ok {
			return
		}
		in.SubCategoryID = subCategoryID
	}

	product, err := s.products.Update(c.Request.Context(), currentSubject(c), id, in)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product updated successfully", product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.products.Delete(c.Request.Context(), currentSubject(c), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product deleted successfully", nil)
}
