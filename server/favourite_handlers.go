package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/repository"
)

type addFavouriteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (s *Server) addFavourite(c *gin.Context) {
	var req addFavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	productID, ok := objectIDField(c, req.ProductID)
	if !ok {
		return
	}

	fav, err := s.favourites.Add(c.Request.Context(), currentSubject(c), productID)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Favourite item added successfully", fav)
}

func (s *Server) listFavourites(c *gin.Context) {
	q := pageQuery(c, 20)
	views, total, err := s.favourites.List(c.Request.Context(), currentSubject(c), q)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Favourite items retrieved successfully", repository.NewPage(views, total, q))
}

func (s *Server) getFavourite(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	view, err := s.favourites.Get(c.Request.Context(), currentSubject(c), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Favourite item retrieved successfully", view)
}

// removeFavourite takes the product id, matching how clients key
// favourites on the product rather than the favourite row.
func (s *Server) removeFavourite(c *gin.Context) {
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.favourites.Remove(c.Request.Context(), currentSubject(c), productID); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Favourite item removed successfully", nil)
}
