package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// writeError maps domain errors to HTTP status codes. Anything unrecognised is a 500.
func writeError(c *gin.Context, err error, message string) {
	var (
		validationErr *domain.ValidationError
		mixedErr      *domain.MixedSupplierError
		productErr    *domain.ProductNotFoundError
		supplierErr   *domain.SupplierNotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": message, "field": validationErr.Field, "details": validationErr.Message})
	case errors.As(err, &mixedErr):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error(), "supplier_ids": mixedErr.SupplierIDs})
	case errors.As(err, &productErr), errors.As(err, &supplierErr):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// pathID parses a positive integer path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return 0, false
	}
	return id, true
}
