package server

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruitment-api/internal/common/logger"
	"recruitment-api/internal/submission"
)

// Submitter is the pipeline contract the handler depends on.
type Submitter interface {
	Submit(ctx context.Context, req *submission.Request) *submission.Outcome
}

// ApplicationHandler exposes the submission endpoint.
type ApplicationHandler struct {
	submitter Submitter
	logger    logger.Logger
}

func NewApplicationHandler(s Submitter, log logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		submitter: s,
		logger:    log.WithFields(map[string]interface{}{"component": "handler"}),
	}
}

// fileFieldPattern matches the file1, file2, ... form field convention.
var fileFieldPattern = regexp.MustCompile(`^file(\d+)$`)

// Submit handles POST /api/applications: a multipart form with the applicant
// fields and file1..fileN attachments.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}

	req := &submission.Request{
		Username:        formValue(form, "username"),
		Email:           formValue(form, "email"),
		Position:        formValue(form, "position"),
		WhyThisPosition: formValue(form, "whyThisPosition"),
		GDPRConsent:     formValue(form, "gdprConsent") == "true",
		Language:        formValue(form, "language"),
		TurnstileToken:  formValue(form, "turnstileToken"),
		RemoteIP:        c.ClientIP(),
		Files:           collectFiles(form),
	}

	outcome := h.submitter.Submit(c.Request.Context(), req)
	if outcome.Err != nil {
		fields := map[string]interface{}{"code": string(outcome.Err.Code)}
		if outcome.Err.IsClientError() {
			h.logger.Warn("submission rejected", fields)
		} else {
			h.logger.Error("submission failed", fields)
		}

		body := gin.H{"error": outcome.Err.Message}
		if outcome.Err.Details != "" {
			body["details"] = outcome.Err.Details
		}
		c.JSON(outcome.Err.Status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": outcome.Message,
	})
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// collectFiles gathers every fileN part, ordered by index. Unlike probing
// file1, file2, ... until the first miss, a gap in the numbering does not
// silently drop the files after it.
func collectFiles(form *multipart.Form) []submission.AttachmentFile {
	type indexed struct {
		index int
		fh    *multipart.FileHeader
	}

	var found []indexed
	for key, headers := range form.File {
		m := fileFieldPattern.FindStringSubmatch(key)
		if m == nil || len(headers) == 0 {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, indexed{index: index, fh: headers[0]})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	files := make([]submission.AttachmentFile, 0, len(found))
	for _, f := range found {
		files = append(files, submission.AttachmentFile{
			Filename: f.fh.Filename,
			Size:     f.fh.Size,
			Open: func() (io.ReadCloser, error) {
				return f.fh.Open()
			},
		})
	}
	return files
}
