package utils

import (
	"github.com/gin-gonic/gin"

	"hotel-booking-api/apperror"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{"success": false, "error": gin.H{"code": errCode, "message": message}})
}

// AbortWithError writes the envelope for err and stops the handler chain.
// 5xx responses carry the generic message only.
func AbortWithError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	_ = c.Error(err)
	c.Abort()
	JSONError(c, appErr.Status, appErr.Code, appErr.PublicMessage())
}
