package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
)

type createOrderRequest struct {
	ShippingAddressID string `json:"shipping_address_id" binding:"required"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	addressID, ok := objectIDField(c, req.ShippingAddressID)
	if !ok {
		return
	}

	order, err := s.orders.Create(c.Request.Context(), currentSubject(c), addressID)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Order created successfully", order)
}

func (s *Server) listOrders(c *gin.Context) {
	q := pageQuery(c, 20)
	orders, total, err := s.orders.ListForUser(c.Request.Context(), currentSubject(c), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Orders retrieved successfully", repository.NewPage(orders, total, q))
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.GetForUser(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

func (s *Server) cancelOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.Cancel(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Order cancelled successfully", order)
}

func (s *Server) listManufacturerOrders(c *gin.Context) {
	q := pageQuery(c, 20)
	orders, total, err := s.orders.ListForManufacturer(c.Request.Context(), currentSubject(c), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Orders retrieved successfully", repository.NewPage(orders, total, q))
}

func (s *Server) getManufacturerOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.GetForManufacturer(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

func (s *Server) listAdminOrders(c *gin.Context) {
	q := pageQuery(c, 20)
	orders, total, err := s.orders.ListForAdmin(c.Request.Context(), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Orders retrieved successfully", repository.NewPage(orders, total, q))
}

func (s *Server) getAdminOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.GetForAdmin(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func (s *Server) updateOrderPaymentStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := s.orders.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Order payment status updated successfully", order)
}
