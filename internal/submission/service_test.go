package submission

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-api/internal/application"
	"recruitment-api/internal/common/config"
	apperrors "recruitment-api/internal/common/errors"
	"recruitment-api/internal/common/logger"
	"recruitment-api/internal/i18n"
	"recruitment-api/internal/mailer"
	"recruitment-api/internal/turnstile"
)

// ==========================
// Test doubles
// ==========================

type fakeVerifier struct {
	result *turnstile.Result
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _, _ string) (*turnstile.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeMailer struct {
	verifyErr   error
	sendErr     error
	verifyCalls int
	sent        []*mailer.Message
}

func (f *fakeMailer) Verify(_ context.Context) error {
	f.verifyCalls++
	return f.verifyErr
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type panickingMailer struct {
	fakeMailer
}

func (p *panickingMailer) Send(_ context.Context, _ *mailer.Message) error {
	panic("smtp session corrupted")
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ==========================
// Helpers
// ==========================

func testConfig() *config.Config {
	return &config.Config{
		Mail: config.MailConfig{
			Provider:  "smtp",
			FromName:  "Recruitment Form",
			FromEmail: "support@example.com",
			Recipient: "recruitment@example.com",
			SMTP: config.SMTPConfig{
				Host:     "mail.example.com",
				Port:     465,
				Username: "support@example.com",
				Password: "secret",
			},
		},
	}
}

func fileOf(name, content string) AttachmentFile {
	return AttachmentFile{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func validRequest() *Request {
	return &Request{
		Username:        "Jan",
		Email:           "jan@example.com",
		Position:        "backend-developer",
		WhyThisPosition: "I love backend work",
		GDPRConsent:     true,
		Language:        "en",
		TurnstileToken:  "token-ok",
		RemoteIP:        "203.0.113.7",
		Files:           []AttachmentFile{fileOf("cv.pdf", "fake pdf bytes")},
	}
}

func newTestService(t *testing.T, cfg *config.Config, v TokenVerifier, m mailer.Mailer) *Service {
	t.Helper()
	return NewService(cfg, v, m, logger.NewTestLogger(t))
}

// ==========================
// Pipeline scenarios
// ==========================

func TestSubmit_Success(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.Nil(t, outcome.Err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Application sent successfully", outcome.Message)
	assert.Equal(t, 1, verifier.calls)
	assert.Equal(t, 1, mail.verifyCalls)
	require.Len(t, mail.sent, 1)

	msg := mail.sent[0]
	assert.Equal(t, "Recruitment Form <support@example.com>", msg.From)
	assert.Equal(t, "recruitment@example.com", msg.To)
	assert.Equal(t, "New application for position: backend-developer", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Jan")
	assert.Contains(t, msg.HTMLBody, "jan@example.com")
	assert.Contains(t, msg.HTMLBody, "backend-developer")
	assert.Contains(t, msg.HTMLBody, "I love backend work")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "cv.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, []byte("fake pdf bytes"), msg.Attachments[0].Content)
}

func TestSubmit_MissingToken(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	req := validRequest()
	req.TurnstileToken = ""

	outcome := svc.Submit(context.Background(), req)

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeMissingCaptchaToken, outcome.Err.Code)
	assert.Equal(t, 400, outcome.Err.Status)
	assert.Equal(t, "Missing CAPTCHA token", outcome.Err.Message)
	assert.Zero(t, verifier.calls)
	assert.Zero(t, mail.verifyCalls)
}

func TestSubmit_CaptchaRejected_ShortCircuitsTransport(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{
		Success:    false,
		ErrorCodes: []string{"invalid-input-response"},
	}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeCaptchaVerificationFailed, outcome.Err.Code)
	assert.Equal(t, 400, outcome.Err.Status)
	assert.Contains(t, outcome.Err.Details, "invalid-input-response")
	assert.Zero(t, mail.verifyCalls)
	assert.Empty(t, mail.sent)
}

func TestSubmit_CaptchaUnreachable(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	svc := newTestService(t, testConfig(), verifier, &fakeMailer{})

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeCaptchaVerificationFailed, outcome.Err.Code)
	assert.Equal(t, 400, outcome.Err.Status)
}

func TestSubmit_CaptchaTimeout(t *testing.T) {
	verifier := &fakeVerifier{err: timeoutError{}}
	svc := newTestService(t, testConfig(), verifier, &fakeMailer{})

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeCaptchaVerificationTimeout, outcome.Err.Code)
	assert.Equal(t, "CAPTCHA verification failed", outcome.Err.Message)
}

func TestSubmit_InvalidEmail(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	req := validRequest()
	req.Email = "not-an-email"

	outcome := svc.Submit(context.Background(), req)

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, outcome.Err.Code)
	assert.Equal(t, 400, outcome.Err.Status)
	assert.Equal(t, "Invalid email format", outcome.Err.Message)
	assert.Zero(t, mail.verifyCalls)
}

func TestSubmit_FileTooLarge(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	svc := newTestService(t, testConfig(), verifier, &fakeMailer{})

	req := validRequest()
	req.Files = []AttachmentFile{{
		Filename: "huge.bin",
		Size:     11 * 1024 * 1024,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(nil)), nil },
	}}

	outcome := svc.Submit(context.Background(), req)

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, outcome.Err.Code)
	assert.Equal(t, "File size cannot exceed 10MB", outcome.Err.Message)
	assert.Equal(t, 400, outcome.Err.Status)
}

func TestSubmit_MissingMailCredential(t *testing.T) {
	cfg := testConfig()
	cfg.Mail.SMTP.Password = ""
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, cfg, verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeMissingMailCredentials, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Zero(t, mail.verifyCalls)
}

func TestSubmit_TransportVerifyFails(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{verifyErr: errors.New("tls: handshake failure")}
	svc := newTestService(t, testConfig(), verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeMailConnectionFailed, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Equal(t, "Email server configuration error", outcome.Err.Message)
	assert.Contains(t, outcome.Err.Details, "handshake failure")
	assert.Empty(t, mail.sent)
}

func TestSubmit_TransportVerifyTimeout(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{verifyErr: timeoutError{}}
	svc := newTestService(t, testConfig(), verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeMailTimeout, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Equal(t, "Email server configuration error", outcome.Err.Message)
	assert.Empty(t, mail.sent)
}

func TestSubmit_DeliveryFails(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{sendErr: errors.New("550 mailbox unavailable")}
	svc := newTestService(t, testConfig(), verifier, mail)

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeDeliveryFailed, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Equal(t, "Email server configuration error", outcome.Err.Message)
	assert.Contains(t, outcome.Err.Details, "550")
}

func TestSubmit_PanicBecomesServerError(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	svc := newTestService(t, testConfig(), verifier, &panickingMailer{})

	outcome := svc.Submit(context.Background(), validRequest())

	require.NotNil(t, outcome.Err)
	assert.False(t, outcome.Success)
	assert.Equal(t, apperrors.ErrCodeInternal, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Equal(t, "Server error while sending application", outcome.Err.Message)
	assert.Contains(t, outcome.Err.Details, "smtp session corrupted")
}

func TestSubmit_LanguageFallback(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	req := validRequest()
	req.Language = "de"

	outcome := svc.Submit(context.Background(), req)

	require.Nil(t, outcome.Err)
	assert.Equal(t, "Aplikacja została pomyślnie wysłana", outcome.Message)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Subject, "Nowa aplikacja na stanowisko")
	assert.Contains(t, mail.sent[0].HTMLBody, "Nowa aplikacja rekrutacyjna")
	assert.Contains(t, mail.sent[0].HTMLBody, "Język: PL")
}

func TestSubmit_PolishErrorMessages(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	svc := newTestService(t, testConfig(), verifier, &fakeMailer{})

	req := validRequest()
	req.Language = "pl"
	req.Email = "not-an-email"

	outcome := svc.Submit(context.Background(), req)

	require.NotNil(t, outcome.Err)
	assert.Equal(t, "Nieprawidłowy format adresu email", outcome.Err.Message)
}

func TestSubmit_MultipleAttachments(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	req := validRequest()
	req.Files = []AttachmentFile{
		fileOf("cv.pdf", "pdf bytes"),
		fileOf("portfolio.zip", "zip bytes"),
		fileOf("references.txt", "txt bytes"),
	}

	outcome := svc.Submit(context.Background(), req)

	require.Nil(t, outcome.Err)
	require.Len(t, mail.sent, 1)
	atts := mail.sent[0].Attachments
	require.Len(t, atts, 3)
	assert.Equal(t, "cv.pdf", atts[0].Filename)
	assert.Equal(t, []byte("pdf bytes"), atts[0].Content)
	assert.Equal(t, "portfolio.zip", atts[1].Filename)
	assert.Equal(t, "references.txt", atts[2].Filename)
}

func TestSubmit_AttachmentOpenFails(t *testing.T) {
	verifier := &fakeVerifier{result: &turnstile.Result{Success: true}}
	mail := &fakeMailer{}
	svc := newTestService(t, testConfig(), verifier, mail)

	req := validRequest()
	req.Files = []AttachmentFile{{
		Filename: "cv.pdf",
		Size:     10,
		Open:     func() (io.ReadCloser, error) { return nil, errors.New("temp file vanished") },
	}}

	outcome := svc.Submit(context.Background(), req)

	require.NotNil(t, outcome.Err)
	assert.Equal(t, apperrors.ErrCodeInternal, outcome.Err.Code)
	assert.Equal(t, 500, outcome.Err.Status)
	assert.Empty(t, mail.sent)
}

// ==========================
// Composition
// ==========================

func TestRenderBody_NewlinesBecomeLineBreaks(t *testing.T) {
	app := &application.Application{
		Username:        "Jan",
		Email:           "jan@example.com",
		Position:        "backend-developer",
		WhyThisPosition: "First line\nSecond line",
		GDPRConsent:     true,
		Language:        "en",
	}

	body := renderBody(app, i18n.ForLanguage("en"), time.Now())

	assert.Contains(t, body, "First line<br>Second line")
	assert.NotContains(t, body, "First line\nSecond line")
}

func TestRenderBody_ConsentLocalized(t *testing.T) {
	app := &application.Application{
		Username: "Jan", Email: "jan@example.com", Position: "inne",
		WhyThisPosition: "because", GDPRConsent: true, Language: "pl",
	}

	plBody := renderBody(app, i18n.ForLanguage("pl"), time.Now())
	assert.Contains(t, plBody, "Zgoda RODO")
	assert.Contains(t, plBody, "TAK")

	app.GDPRConsent = false
	plBody = renderBody(app, i18n.ForLanguage("pl"), time.Now())
	assert.Contains(t, plBody, "NIE")
}

func TestRenderBody_TimestampFormat(t *testing.T) {
	app := &application.Application{
		Username: "Jan", Email: "jan@example.com", Position: "inne",
		WhyThisPosition: "because", GDPRConsent: true, Language: "pl",
	}
	at := time.Date(2026, 8, 31, 9, 5, 7, 0, time.UTC)

	plBody := renderBody(app, i18n.ForLanguage("pl"), at)
	assert.Contains(t, plBody, "31.08.2026, 09:05:07")

	enBody := renderBody(app, i18n.ForLanguage("en"), at)
	assert.Contains(t, enBody, "31/08/2026, 09:05:07")
}

func TestRenderBody_FooterLabels(t *testing.T) {
	app := &application.Application{
		Username: "Jan", Email: "jan@example.com", Position: "inne",
		WhyThisPosition: "because", GDPRConsent: true, Language: "pl",
		Attachments: []application.Attachment{{Filename: "cv.pdf"}, {Filename: "list.pdf"}},
	}

	plBody := renderBody(app, i18n.ForLanguage("pl"), time.Now())
	assert.Contains(t, plBody, "Język: PL")
	assert.Contains(t, plBody, "Plików załączonych: 2")

	app.Language = "en"
	enBody := renderBody(app, i18n.ForLanguage("en"), time.Now())
	assert.Contains(t, enBody, "Language: EN")
	assert.Contains(t, enBody, "Files attached: 2")
}

func TestRenderBody_EscapesMarkup(t *testing.T) {
	app := &application.Application{
		Username: "<script>alert(1)</script>", Email: "jan@example.com",
		Position: "inne", WhyThisPosition: "a < b", GDPRConsent: true, Language: "en",
	}

	body := renderBody(app, i18n.ForLanguage("en"), time.Now())

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "a &lt; b")
}
