package api

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope:
// success is {status, data, message} and failure is
// {status, message, errors, requestID}

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, gin.H{
		"status":  code,
		"data":    data,
		"message": message,
	})
}

func respondError(c *gin.Context, code int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = []string{message}
	}

	c.AbortWithStatusJSON(code, gin.H{
		"status":    code,
		"message":   message,
		"errors":    errs,
		"requestID": c.GetString("requestID"),
	})
}
