package utils

import (
	"fmt"
	"medblock-service/internal/pkg/constvars"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateCredentialObjectKey builds credentials/<accountId>/<uuid><ext>.
func GenerateCredentialObjectKey(accountID, originalFileName string) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	return fmt.Sprintf("%s/%s/%s%s", constvars.CredentialObjectPrefix, accountID, uuid.NewString(), ext)
}
