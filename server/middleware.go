package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/auth"
	"github.com/example/primepulse/pkg/models"
)

const (
	ctxClaims    = "claims"
	ctxSubjectID = "subject_id"
	ctxRequestID = "request_id"
)

func requestIDField(c *gin.Context) zap.Field {
	return zap.String("request_id", c.GetString(ctxRequestID))
}

func pathField(c *gin.Context) zap.Field {
	return zap.String("path", c.Request.URL.Path)
}

func errField(err error) zap.Field {
	return zap.Error(err)
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxRequestID)),
		)
	}
}

// authenticate verifies the bearer token for the given audience and
// attaches the claims and parsed subject id to the request.
func (s *Server) authenticate(audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "You are not authorized to access this route.")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := s.tokens.Verify(audience, token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Access denied. Please login to continue.")
			c.Abort()
			return
		}

		subjectID, err := primitive.ObjectIDFromHex(claims.SubjectID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Access denied. Please login to continue.")
			c.Abort()
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxSubjectID, subjectID)
		c.Next()
	}
}

// requireRole gates a route on membership in the normalized role set.
func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || !claims.HasRole(role) {
			respondError(c, http.StatusForbidden,
				"Access denied. You are not authorized to access this route, only "+role+" is allowed.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireManufacturer() gin.HandlerFunc {
	return requireRole(models.UserTypeManufacturer)
}

func requireSuperAdmin() gin.HandlerFunc {
	return requireRole(models.RoleSuperAdmin)
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func currentSubject(c *gin.Context) primitive.ObjectID {
	v, ok := c.Get(ctxSubjectID)
	if !ok {
		return primitive.NilObjectID
	}
	id, _ := v.(primitive.ObjectID)
	return id
}
