// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError sends a generic JSON error. Technical detail stays in the
// server logs, never in the response body.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
