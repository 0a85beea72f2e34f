package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
	"github.com/example/primepulse/pkg/service"
)

type bankRequest struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
}

func (s *Server) createBank(c *gin.Context) {
	var req bankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bank, err := s.banks.Create(c.Request.Context(), currentSubject(c), service.BankInput{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Bank created successfully", bank)
}

func (s *Server) listBanks(c *gin.Context) {
	q := pageQuery(c, 10)
	banks, total, err := s.banks.List(c.Request.Context(), currentSubject(c), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Banks retrieved successfully", repository.NewPage(banks, total, q))
}

func (s *Server) getBank(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	bank, err := s.banks.Get(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Bank retrieved successfully", bank)
}

func (s *Server) updateBank(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req bankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bank, err := s.banks.Update(c.Request.Context(), currentSubject(c), id, service.BankInput{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Bank updated successfully", bank)
}

func (s *Server) deleteBank(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.banks.Delete(c.Request.Context(), currentSubject(c), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Bank deleted successfully", nil)
}
