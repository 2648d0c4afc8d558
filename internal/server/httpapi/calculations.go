package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

// calculationID validates the :id path parameter. A malformed id is a 400,
// not a 404; only well-formed ids reach the database.
func calculationID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid calculation id"})
		return "", false
	}
	return id, true
}

func (h *handlers) createCalculation(c *gin.Context) {
	var req createCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calcType, err := models.ParseCalculationType(req.Type)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calculation, err := h.calculations.Create(c.Request.Context(), currentUser(c).ID, calcType, req.Inputs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCalculationResponse(calculation))
}

func (h *handlers) listCalculations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.calculations.List(c.Request.Context(), currentUser(c).ID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCalculationListResponse(list))
}

func (h *handlers) getCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	calculation, err := h.calculations.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCalculationResponse(calculation))
}

func (h *handlers) updateCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	var req updateCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calculation, err := h.calculations.Update(c.Request.Context(), currentUser(c).ID, id, req.Inputs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCalculationResponse(calculation))
}

func (h *handlers) deleteCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	if err := h.calculations.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
