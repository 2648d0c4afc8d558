package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/calcledger/internal/common"
)

// abortWithError translates a service error into an HTTP response. The
// mapping is the only place status codes are decided; services and
// repositories deal in sentinels.
//
// Token and credential failures are 401. A token whose subject has been
// deleted is 404 and a disabled account is 400: both tokens were
// cryptographically fine, the account is the problem. Anything unrecognized
// is a 500 with a generic body.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrUserInactive):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user account is inactive"})
	case errors.Is(err, common.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, common.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has expired"})
	case errors.Is(err, common.ErrTokenRevoked):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
	case errors.Is(err, common.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
