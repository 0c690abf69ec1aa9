package services

import (
	"context"
	"errors"

	"HealthLife/config/upload"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
)

var errNoUploader = errors.New("image uploads are not configured")

/*
* Upload the image into the folder and return its url
* A nil image yields an empty url
 */
func uploadImage(ctx context.Context, uploader upload.Uploader, img *Image, folder string) (string, error) {
	if img == nil || img.File == nil {
		return "", nil
	}
	if uploader == nil {
		return "", util.Internal(util.IMAGE_UPLOAD_FAILED, errNoUploader)
	}
	url, err := uploader.Upload(ctx, img.File, folder, img.Name)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("image upload failed")
		return "", util.Internal(util.IMAGE_UPLOAD_FAILED, err)
	}
	return url, nil
}
