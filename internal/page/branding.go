package page

import (
	apperrors "waterx/internal/errors"
	"waterx/internal/profile"
)

const msgInvalidURL = "Please enter a valid URL."

// BrandingForm edits the application logo. An empty LogoURL clears it.
type BrandingForm struct {
	LogoURL string `json:"logoUrl" validate:"omitempty,url"`
}

// Validate returns an error when LogoURL is neither empty nor a URL
func (f BrandingForm) Validate() error {
	if err := profile.Validator().Struct(f); err != nil {
		return apperrors.NewValidationError(msgInvalidURL).WithCause(err)
	}
	return nil
}
