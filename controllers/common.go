package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"HealthLife/config/authorization"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

/*
* Read the identity the auth middleware attached
* A missing identity means the route was wired without middleware
 */
func identity(c *gin.Context) (authorization.Identity, bool) {
	id, ok := authorization.GetIdentity(c)
	if !ok {
		util.Fail(c, util.Unauthorized(util.NOT_AUTHORIZED_NO_TOKEN))
	}
	return id, ok
}

/*
* Open the optional "image" file of a multipart form
* The returned func closes it
 */
func formImage(c *gin.Context) (*services.Image, func(), error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, util.BadRequest(util.IMAGE_UPLOAD_FAILED)
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, util.Internal(util.IMAGE_UPLOAD_FAILED, err)
	}
	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	return &services.Image{File: file, Name: name}, func() { _ = file.Close() }, nil
}
