package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"streamlay/internal/core/domain"
)

var (
	// DataURIRegex matches the encoded image payloads logo overlays carry
	DataURIRegex = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/]+={0,2}$`)
)

// maxContentBytes caps overlay content; a 2 MB compressed image grows
// to roughly 2.7 MB once base64-encoded.
const maxContentBytes = 4 * 1024 * 1024

// ValidateStreamRef validates the opaque stream reference
func ValidateStreamRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("streamRef is required")
	}
	if len(ref) > 2048 {
		return fmt.Errorf("streamRef is too long (max 2048 characters)")
	}
	if !utf8.ValidString(ref) {
		return fmt.Errorf("streamRef contains invalid characters")
	}
	return nil
}

// ValidateKind validates the overlay kind
func ValidateKind(kind domain.OverlayKind) error {
	switch kind {
	case domain.KindText, domain.KindLogo:
		return nil
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("invalid kind %q (must be text or logo)", kind)
	}
}

// ValidateContent validates overlay content against its kind: UTF-8
// text for text, a base64 image data URI for logo
func ValidateContent(kind domain.OverlayKind, content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	if len(content) > maxContentBytes {
		return fmt.Errorf("content is too large (max %d bytes)", maxContentBytes)
	}

	switch kind {
	case domain.KindText:
		if !utf8.ValidString(content) {
			return fmt.Errorf("text content must be valid UTF-8")
		}
		if strings.HasPrefix(content, "data:") {
			return fmt.Errorf("text overlay must not carry an image payload")
		}
	case domain.KindLogo:
		if !DataURIRegex.MatchString(content) {
			return fmt.Errorf("logo content must be a base64 image data URI")
		}
	}
	return nil
}

// ValidateDraft validates a create payload
func ValidateDraft(d domain.Draft) error {
	if err := ValidateStreamRef(string(d.StreamRef)); err != nil {
		return err
	}
	if err := ValidateKind(d.Kind); err != nil {
		return err
	}
	return ValidateContent(d.Kind, d.Content)
}

// ValidateOverlay validates a full update payload
func ValidateOverlay(o domain.Overlay) error {
	if o.ID == "" {
		return fmt.Errorf("id is required")
	}
	if err := ValidateStreamRef(string(o.StreamRef)); err != nil {
		return err
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	return ValidateContent(o.Kind, o.Content)
}
