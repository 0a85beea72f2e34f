package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	productID, ok := objectIDField(c, req.ProductID)
	if !ok {
		return
	}

	item, merged, err := s.carts.Add(c.Request.Context(), currentSubject(c), productID, req.Quantity)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	if merged {
		respondSuccess(c, http.StatusOK, "Cart item updated successfully", item)
		return
	}
	respondSuccess(c, http.StatusCreated, "Cart item added successfully", item)
}

func (s *Server) getCart(c *gin.Context) {
	views, err := s.carts.List(c.Request.Context(), currentSubject(c))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Cart retrieved successfully", views)
}

func (s *Server) removeCartItem(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.carts.Remove(c.Request.Context(), currentSubject(c), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Cart item removed successfully", nil)
}

func (s *Server) reduceCartItem(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	quantity, err := strconv.ParseInt(c.Param("quantity"), 10, 64)
	if err != nil || quantity <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid quantity")
		return
	}

	item, err := s.carts.ReduceQuantity(c.Request.Context(), currentSubject(c), id, quantity)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	if item == nil {
		respondSuccess(c, http.StatusOK, "Cart item removed successfully", nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Cart item updated successfully", item)
}
