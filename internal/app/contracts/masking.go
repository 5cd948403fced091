package contracts

import "medblock-service/internal/app/models"

type Masker interface {
	Mask(record map[string]interface{}, identity *models.Identity, resourceType string) map[string]interface{}
	MaskList(records []map[string]interface{}, identity *models.Identity, resourceType string) []map[string]interface{}
}
