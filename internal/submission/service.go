// Package submission orchestrates one application submission end to end:
// token check, bot verification, validation, transport verification, message
// composition and delivery. The pipeline is linear; every step can exit to a
// terminal typed failure and nothing is retried.
package submission

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"recruitment-api/internal/application"
	"recruitment-api/internal/common/config"
	apperrors "recruitment-api/internal/common/errors"
	"recruitment-api/internal/common/httpclient"
	"recruitment-api/internal/common/logger"
	"recruitment-api/internal/common/metrics"
	"recruitment-api/internal/i18n"
	"recruitment-api/internal/mailer"
	"recruitment-api/internal/turnstile"
)

// TokenVerifier is the bot-check collaborator contract.
type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*turnstile.Result, error)
}

// AttachmentFile is one uploaded file as received at the boundary. Open is
// called once, by the pipeline, when the bytes are actually needed.
type AttachmentFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Request is one submission as extracted from the multipart form.
type Request struct {
	Username        string
	Email           string
	Position        string
	WhyThisPosition string
	GDPRConsent     bool
	Language        string
	TurnstileToken  string
	RemoteIP        string
	Files           []AttachmentFile
}

// Outcome is the structured result returned to the HTTP layer. Exactly one of
// Message (success) or Err is set.
type Outcome struct {
	Success bool
	Message string
	Err     *apperrors.StandardError
}

func success(message string) *Outcome {
	return &Outcome{Success: true, Message: message}
}

func failure(err *apperrors.StandardError) *Outcome {
	return &Outcome{Err: err}
}

// Service runs the submission pipeline. It holds no per-request state; one
// instance serves all concurrent submissions.
type Service struct {
	cfg      *config.Config
	verifier TokenVerifier
	mailer   mailer.Mailer
	logger   logger.Logger
}

func NewService(cfg *config.Config, verifier TokenVerifier, m mailer.Mailer, log logger.Logger) *Service {
	return &Service{
		cfg:      cfg,
		verifier: verifier,
		mailer:   m,
		logger:   log.WithFields(map[string]interface{}{"component": "submission"}),
	}
}

// Submit runs the whole pipeline for one request. Any panic below this
// boundary is mapped to the generic localized server error, in the primary
// locale when the request language is unusable.
func (s *Service) Submit(ctx context.Context, req *Request) (outcome *Outcome) {
	start := time.Now()
	metrics.SubmissionsReceived.Inc()

	submissionID := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{"submissionId": submissionID})

	t := i18n.ForLanguage(req.Language)

	defer func() {
		if r := recover(); r != nil {
			log.Error("submission pipeline panicked", map[string]interface{}{"panic": r})
			outcome = failure(apperrors.NewInternalError(t.ServerError, fmt.Sprint(r)))
		}
		if outcome.Err != nil {
			metrics.SubmissionsFailed.WithLabelValues(string(outcome.Err.Code)).Inc()
		} else {
			metrics.SubmissionsSucceeded.Inc()
		}
		metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	}()

	// Step 1: token presence.
	if req.TurnstileToken == "" {
		log.Warn("submission without captcha token", nil)
		return failure(apperrors.NewMissingCaptchaTokenError(t.MissingToken))
	}

	// Step 2: bot-check verification.
	result, err := s.verifier.Verify(ctx, req.TurnstileToken, req.RemoteIP)
	if err != nil {
		log.WithError(err).Warn("captcha verification unreachable", nil)
		if httpclient.IsTimeout(err) {
			return failure(apperrors.NewCaptchaVerificationTimeoutError(t.CaptchaFailed, err.Error()))
		}
		return failure(apperrors.NewCaptchaVerificationFailedError(t.CaptchaFailed, err.Error()))
	}
	if !result.Success {
		return failure(apperrors.NewCaptchaVerificationFailedError(t.CaptchaFailed, result.Detail()))
	}

	// Step 3+4: build the domain model and validate.
	app := &application.Application{
		Username:        req.Username,
		Email:           req.Email,
		Position:        req.Position,
		WhyThisPosition: req.WhyThisPosition,
		GDPRConsent:     req.GDPRConsent,
		Language:        t.Language,
	}
	for _, f := range req.Files {
		app.Attachments = append(app.Attachments, application.Attachment{
			Filename: f.Filename,
			Size:     f.Size,
		})
	}

	if vErr := application.Validate(app, t); vErr != nil {
		log.Info("submission rejected by validation", map[string]interface{}{
			"detail": vErr.Details,
		})
		return failure(vErr)
	}

	// Step 5: transport credential precondition.
	if pErr := s.checkMailCredentials(t); pErr != nil {
		log.Error("mail transport credential missing", map[string]interface{}{
			"provider": s.cfg.Mail.Provider,
		})
		return failure(pErr)
	}

	// Step 6: transport connectivity verification.
	if err := s.mailer.Verify(ctx); err != nil {
		log.WithError(err).Error("mail transport verification failed", nil)
		if httpclient.IsTimeout(err) {
			return failure(apperrors.NewMailTimeoutError(t.SMTPError, err))
		}
		return failure(apperrors.NewMailConnectionFailedError(t.SMTPError, err))
	}

	// Load attachment bytes concurrently; each file is independent.
	if err := s.loadAttachments(ctx, req.Files, app); err != nil {
		log.WithError(err).Error("failed to read attachments", nil)
		return failure(apperrors.NewInternalError(t.ServerError, err.Error()))
	}

	// Step 7: composition.
	msg := s.compose(app, t, time.Now())

	// Step 8: delivery.
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.WithError(err).Error("email delivery failed", nil)
		return failure(apperrors.NewDeliveryFailedError(t.SMTPError, err))
	}

	log.Info("application delivered", map[string]interface{}{
		"position":    app.Position,
		"language":    app.Language,
		"attachments": len(app.Attachments),
	})

	return success(t.SuccessMessage)
}

func (s *Service) checkMailCredentials(t *i18n.Table) *apperrors.StandardError {
	switch s.cfg.Mail.Provider {
	case "smtp":
		if s.cfg.Mail.SMTP.Password == "" {
			return apperrors.NewMissingMailCredentialsError(t.SMTPError,
				"SMTP password is not configured")
		}
	case "ses":
		if s.cfg.Mail.SES.Region == "" {
			return apperrors.NewMissingMailCredentialsError(t.SMTPError,
				"SES region is not configured")
		}
	}
	return nil
}

func (s *Service) loadAttachments(ctx context.Context, files []AttachmentFile, app *application.Application) error {
	g, _ := errgroup.WithContext(ctx)

	for i, f := range files {
		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("failed to open attachment %q: %w", f.Filename, err)
			}
			defer rc.Close()

			content, err := io.ReadAll(io.LimitReader(rc, application.MaxAttachmentSize+1))
			if err != nil {
				return fmt.Errorf("failed to read attachment %q: %w", f.Filename, err)
			}

			app.Attachments[i].Content = content
			metrics.AttachmentBytes.Observe(float64(len(content)))
			return nil
		})
	}

	return g.Wait()
}
