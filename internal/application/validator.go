package application

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	apperrors "recruitment-api/internal/common/errors"
	"recruitment-api/internal/i18n"
)

// emailRegex mirrors the client-side pattern: at least one non-whitespace
// local part, an @, a domain with at least one dot, no whitespace anywhere.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the application against the business rules in fixed order
// and returns the first violation as a localized error, or nil when the
// application is valid. It is a pure function of its inputs.
func Validate(app *Application, t *i18n.Table) *apperrors.StandardError {
	if app.Username == "" || app.Email == "" || app.Position == "" ||
		app.WhyThisPosition == "" || !app.GDPRConsent || len(app.Attachments) == 0 {
		return apperrors.NewValidationFailedError(t.AllFieldsRequired, missingFieldDetail(app))
	}

	if !emailRegex.MatchString(app.Email) {
		return apperrors.NewValidationFailedError(t.InvalidEmail,
			fmt.Sprintf("email %q does not match the required pattern", app.Email))
	}

	for _, att := range app.Attachments {
		if att.Size > MaxAttachmentSize {
			return apperrors.NewValidationFailedError(t.FileTooLarge,
				fmt.Sprintf("attachment %q is %d bytes, limit is %d", att.Filename, att.Size, MaxAttachmentSize))
		}
	}

	if len(app.Attachments) > MaxAttachments {
		return apperrors.NewValidationFailedError(t.TooManyFiles,
			fmt.Sprintf("%d attachments submitted, limit is %d", len(app.Attachments), MaxAttachments))
	}

	if !IsValidPosition(app.Position) {
		return apperrors.NewValidationFailedError(t.InvalidPosition,
			fmt.Sprintf("unknown position %q", app.Position))
	}

	if utf8.RuneCountInString(app.WhyThisPosition) > MaxRationaleLength {
		return apperrors.NewValidationFailedError(t.RationaleTooLong,
			fmt.Sprintf("rationale is %d characters, limit is %d",
				utf8.RuneCountInString(app.WhyThisPosition), MaxRationaleLength))
	}

	return nil
}

func missingFieldDetail(app *Application) string {
	switch {
	case app.Username == "":
		return "username is empty"
	case app.Email == "":
		return "email is empty"
	case app.Position == "":
		return "position is empty"
	case app.WhyThisPosition == "":
		return "whyThisPosition is empty"
	case !app.GDPRConsent:
		return "gdprConsent is not granted"
	default:
		return "no attachments submitted"
	}
}
