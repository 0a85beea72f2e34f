package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type categoryUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := s.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Category created successfully", category)
}

func (s *Server) listCategories(c *gin.Context) {
	q := pageQuery(c, 20)
	categories, total, err := s.categories.List(c.Request.Context(), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Categories retrieved successfully", repository.NewPage(categories, total, q))
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	category, err := s.categories.Get(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Category retrieved successfully", category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := s.categories.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Category updated successfully", category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.categories.Delete(c.Request.Context(), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Category deleted successfully", nil)
}

func (s *Server) createSubCategory(c *gin.Context) {
	categoryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := s.categories.CreateSub(c.Request.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Subcategory created successfully", sub)
}

func (s *Server) updateSubCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := s.categories.UpdateSub(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Subcategory updated successfully", sub)
}

func (s *Server) deleteSubCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.categories.DeleteSub(c.Request.Context(), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Subcategory deleted successfully", nil)
}

func (s *Server) categoryTree(c *gin.Context) {
	trees, err := s.categories.Tree(c.Request.Context())
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Categories and subcategories retrieved successfully", trees)
}

func (s *Server) categoryTreeByID(c *gin.Context) {
	categoryID, ok := objectIDParam(c, "category_id")
	if !ok {
		return
	}

	tree, err := s.categories.TreeByID(c.Request.Context(), categoryID)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Category and subcategories retrieved successfully", tree)
}
