package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
	"github.com/example/primepulse/pkg/service"
)

type addressRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
}

func (s *Server) createAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	address, err := s.addresses.Create(c.Request.Context(), currentSubject(c), service.AddressInput{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Address created successfully", address)
}

func (s *Server) listAddresses(c *gin.Context) {
	q := pageQuery(c, 10)
	addresses, total, err := s.addresses.List(c.Request.Context(), currentSubject(c), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Addresses retrieved successfully", repository.NewPage(addresses, total, q))
}

func (s *Server) getAddress(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	address, err := s.addresses.Get(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Address retrieved successfully", address)
}

func (s *Server) updateAddress(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	address, err := s.addresses.Update(c.Request.Context(), currentSubject(c), id, service.AddressInput{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Address updated successfully", address)
}

func (s *Server) deleteAddress(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.addresses.Delete(c.Request.Context(), currentSubject(c), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Address deleted successfully", nil)
}
