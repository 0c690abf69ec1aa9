package util

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

/*
* Wrap the payload keys with success true
 */
func SuccessResponse(payload gin.H) gin.H {
	res := gin.H{"success": true}
	for k, v := range payload {
		res[k] = v
	}
	return res
}

func MessageResponse(msg string) gin.H {
	return gin.H{"success": true, "message": msg}
}

func FailedResponse(err error) gin.H {
	_, msg := StatusOf(err)
	return gin.H{"success": false, "message": msg}
}

/*
* Write the failure with the status carried by the error
* Server side failures are logged with their cause
 */
func Fail(c *gin.Context, err error) {
	status, _ := StatusOf(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, FailedResponse(err))
}
