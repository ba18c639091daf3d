package utils

import (
	"fmt"

	"homestay/config"
	"homestay/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary initializes the Cloudinary-backed image store from config.
func Cloudinary() (storage.ImageStore, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return storage.NewCloudinaryImageStore(cld, cfg.CloudinaryFolder), nil
}
