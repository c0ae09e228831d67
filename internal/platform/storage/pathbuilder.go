package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/loomhaven/api/internal/platform/textutil"
)

// BuildObjectName derives a unique, collision-safe object name from the
// uploaded file name. The original extension is kept lowercase and the base
// is slugified so names remain readable in the bucket listing.
func BuildObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	slug := textutil.Slugify(base)

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if slug == "" {
		return id + ext
	}
	return id + "-" + slug + ext
}
