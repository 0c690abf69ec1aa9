package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	DoctorFolder  = "doctor_profiles"
	PatientFolder = "user_profiles"
)

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, name string) (string, error)
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

/*
* Upload the image as png under the folder given
* Return the secure url of the stored image
 */
func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, folder, name string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: fmt.Sprintf("%s-%d", name, time.Now().UnixMilli()),
		Format:   "png",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
