package attachments

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

var allowedImageSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(allowedImageTypes))
	for _, value := range allowedImageTypes {
		set[value] = struct{}{}
	}
	return set
}()

// AllowedTypes returns the accepted image media types.
func AllowedTypes() []string {
	out := make([]string, len(allowedImageTypes))
	copy(out, allowedImageTypes)
	return out
}

func isAllowed(mediaType string) bool {
	_, ok := allowedImageSet[mediaType]
	return ok
}

func parseDeclaredType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

// sniffType detects the media type from the payload's leading bytes.
func sniffType(data []byte) string {
	mediaType, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return strings.ToLower(mediaType)
}

func allowedDescription() string {
	return humanReadableList(allowedImageTypes)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
