package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const questionImagesFolder = "school_cbt_questions"

// UploadSignature is what the browser needs to upload a question image
// straight to Cloudinary; the resulting URL goes into image_url.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

func SignUpload(cloudinaryURL string, at time.Time) (UploadSignature, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return UploadSignature{}, err
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return UploadSignature{}, err
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: questionImagesFolder,
	})
	if err != nil {
		return UploadSignature{}, err
	}

	timestamp := at.Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return UploadSignature{}, err
	}

	return UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		CloudName: cld.Config.Cloud.CloudName,
		Folder:    questionImagesFolder,
	}, nil
}

// GenerateUploadSignature signs a frontend upload of a question image.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Image uploads are not configured.")
	}

	signature, err := SignUpload(cloudinaryURL, time.Now())
	if err != nil {
		logger.Log.Error("failed to sign upload params", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to sign upload params")
	}

	return respond(c, fiber.StatusOK, "Upload signature generated successfully.", "upload", signature)
}
