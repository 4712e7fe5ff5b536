// Package application defines the submitted-application domain model and its
// server-side validation rules. An Application lives only for the duration of
// one request and is never persisted.
package application

const (
	// MaxAttachmentSize is the per-file size cap in bytes.
	MaxAttachmentSize = 10 * 1024 * 1024

	// MaxAttachments caps how many files one submission may carry.
	MaxAttachments = 10

	// MaxRationaleLength caps the free-text rationale in characters.
	MaxRationaleLength = 1000
)

// Application is one recruitment submission.
type Application struct {
	Username        string
	Email           string
	Position        string
	WhyThisPosition string
	GDPRConsent     bool
	Language        string
	Attachments     []Attachment
}

// Attachment is one uploaded file. Content may be nil until the pipeline
// loads the bytes; Size always reflects the declared upload size.
type Attachment struct {
	Filename string
	Size     int64
	Content  []byte
}

// positions is the fixed set of role identifiers offered by the form.
// "inne" is the free-form "other" choice.
var positions = map[string]struct{}{
	"frontend-developer":       {},
	"backend-developer":        {},
	"fullstack-developer":      {},
	"mobile-developer":         {},
	"support-specialist":       {},
	"cybersecurity-specialist": {},
	"inne":                     {},
}

// IsValidPosition reports whether p is a known role identifier.
func IsValidPosition(p string) bool {
	_, ok := positions[p]
	return ok
}
