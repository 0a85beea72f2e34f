package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/example/primepulse/pkg/repository"
)

func pageQuery(c *gin.Context, defaultLimit int) repository.PageQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.PageQuery{Page: page, Limit: limit}.Normalize(defaultLimit)
}

// objectIDParam parses a path parameter as an ObjectID, responding 400
// itself on malformed input.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDField parses an ObjectID arriving in a request body.
func objectIDField(c *gin.Context, value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
