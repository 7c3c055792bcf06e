package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const courseImageFolder = "referral_rewards_courses"

// GenerateUploadSignature signs a direct browser upload of a course image.
func (h *Handler) GenerateUploadSignature(c *fiber.Ctx) error {
	if h.cloudinaryURL == "" {
		return respondError(c, apperrors.Internal(errors.New("CLOUDINARY_URL is not set")))
	}

	cld, err := cloudinary.NewFromURL(h.cloudinaryURL)
	if err != nil {
		return respondError(c, apperrors.Internal(err))
	}

	parsedURL, err := url.Parse(h.cloudinaryURL)
	if err != nil {
		return respondError(c, apperrors.Internal(err))
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: courseImageFolder,
	})
	if err != nil {
		return respondError(c, apperrors.Internal(err))
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return respondError(c, apperrors.Internal(err))
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
		"folder":    courseImageFolder,
	})
}
