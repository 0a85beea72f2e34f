package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
	"github.com/example/primepulse/pkg/service"
)

type companyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

type companyUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" binding:"omitempty,email"`
}

func (s *Server) createCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	company, err := s.companies.Create(c.Request.Context(), currentSubject(c), service.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Company created successfully", company)
}

func (s *Server) listCompanies(c *gin.Context) {
	q := pageQuery(c, 20)
	companies, total, err := s.companies.List(c.Request.Context(), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Companies retrieved successfully", repository.NewPage(companies, total, q))
}

func (s *Server) getCompany(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	company, err := s.companies.Get(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Company retrieved successfully", company)
}

func (s *Server) updateCompany(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req companyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	company, err := s.companies.Update(c.Request.Context(), currentSubject(c), id, service.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Company updated successfully", company)
}

func (s *Server) deleteCompany(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.companies.Delete(c.Request.Context(), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Company deleted successfully", nil)
}
