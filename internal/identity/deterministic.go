package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// BlockUUID identifies a finder block placement by region and label.
func BlockUUID(region, label string) uuid.UUID {
	return UUID("activity-finder:block:" + strings.ToLower(strings.TrimSpace(region)) + ":" + strings.TrimSpace(label))
}

// MediaUUID identifies a media library item by bundle and file URI.
func MediaUUID(bundle, fileURI string) uuid.UUID {
	return UUID("activity-finder:media:" + strings.ToLower(strings.TrimSpace(bundle)) + ":" + strings.TrimSpace(fileURI))
}
