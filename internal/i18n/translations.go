// Package i18n holds the email and response translation tables. Tables are
// process-wide immutable constants; lookup falls back to Polish, the primary
// locale of the recruitment mailbox.
package i18n

// DefaultLanguage is the primary locale used when the request carries an
// unknown or empty language code.
const DefaultLanguage = "pl"

// Table is the string table for one locale.
type Table struct {
	Language string

	// Email body labels.
	NewApplication string
	Username       string
	Email          string
	Position       string
	WhyPosition    string
	GDPRConsent    string
	SentDate       string
	Yes            string
	No             string
	SubjectLine    string
	LanguageLabel  string
	FilesAttached  string

	// User-facing result messages.
	AllFieldsRequired string
	InvalidEmail      string
	InvalidPosition   string
	RationaleTooLong  string
	FileTooLarge      string
	TooManyFiles      string
	MissingToken      string
	CaptchaFailed     string
	SMTPError         string
	SuccessMessage    string
	ServerError       string

	// DateLayout is the locale-appropriate Go time layout for the sent-date
	// footer line.
	DateLayout string
}

var tables = map[string]*Table{
	"pl": {
		Language:          "pl",
		NewApplication:    "Nowa aplikacja rekrutacyjna",
		Username:          "Nazwa użytkownika",
		Email:             "Email",
		Position:          "Stanowisko",
		WhyPosition:       "Dlaczego wybrałem to stanowisko",
		GDPRConsent:       "Zgoda RODO",
		SentDate:          "Data wysłania",
		Yes:               "TAK",
		No:                "NIE",
		SubjectLine:       "Nowa aplikacja na stanowisko",
		LanguageLabel:     "Język",
		FilesAttached:     "Plików załączonych",
		AllFieldsRequired: "Wszystkie pola są wymagane",
		InvalidEmail:      "Nieprawidłowy format adresu email",
		InvalidPosition:   "Nieprawidłowe stanowisko",
		RationaleTooLong:  "Uzasadnienie może mieć maksymalnie 1000 znaków",
		FileTooLarge:      "Rozmiar pliku nie może przekraczać 10MB",
		TooManyFiles:      "Można załączyć maksymalnie 10 plików",
		MissingToken:      "Brak tokena CAPTCHA",
		CaptchaFailed:     "Weryfikacja CAPTCHA nie powiodła się",
		SMTPError:         "Błąd konfiguracji serwera email",
		SuccessMessage:    "Aplikacja została pomyślnie wysłana",
		ServerError:       "Błąd serwera podczas wysyłania aplikacji",
		DateLayout:        "02.01.2006, 15:04:05",
	},
	"en": {
		Language:          "en",
		NewApplication:    "New job application",
		Username:          "Username",
		Email:             "Email",
		Position:          "Position",
		WhyPosition:       "Why I chose this position",
		GDPRConsent:       "GDPR Consent",
		SentDate:          "Sent date",
		Yes:               "YES",
		No:                "NO",
		SubjectLine:       "New application for position",
		LanguageLabel:     "Language",
		FilesAttached:     "Files attached",
		AllFieldsRequired: "All fields are required",
		InvalidEmail:      "Invalid email format",
		InvalidPosition:   "Invalid position",
		RationaleTooLong:  "The rationale cannot exceed 1000 characters",
		FileTooLarge:      "File size cannot exceed 10MB",
		TooManyFiles:      "A maximum of 10 files can be attached",
		MissingToken:      "Missing CAPTCHA token",
		CaptchaFailed:     "CAPTCHA verification failed",
		SMTPError:         "Email server configuration error",
		SuccessMessage:    "Application sent successfully",
		ServerError:       "Server error while sending application",
		DateLayout:        "02/01/2006, 15:04:05",
	},
}

// ForLanguage returns the table for the given two-letter code, falling back
// to the primary locale for unknown or empty codes.
func ForLanguage(code string) *Table {
	if t, ok := tables[code]; ok {
		return t
	}
	return tables[DefaultLanguage]
}

// Supported reports whether the given code has its own table.
func Supported(code string) bool {
	_, ok := tables[code]
	return ok
}
