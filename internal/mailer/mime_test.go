package mailer

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePart(t *testing.T, part *multipart.Part) []byte {
	t.Helper()
	encoded, err := io.ReadAll(part)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	return decoded
}

func TestBuildMIME(t *testing.T) {
	msg := &Message{
		From:     "Recruitment Form <support@example.com>",
		To:       "recruitment@example.com",
		Subject:  "Nowa aplikacja na stanowisko: backend-developer",
		HTMLBody: "<div><p>Jan</p></div>",
		Attachments: []Attachment{
			{Filename: "cv.pdf", Content: []byte("%PDF-1.4 fake content")},
			{Filename: "list motywacyjny.docx", Content: bytes.Repeat([]byte{0xAB}, 300)},
		},
	}

	raw, err := BuildMIME(msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "recruitment@example.com", parsed.Header.Get("To"))
	assert.Equal(t, "1.0", parsed.Header.Get("MIME-Version"))

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)
	require.NotEmpty(t, params["boundary"])

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	htmlPart, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, htmlPart.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, string(decodePart(t, htmlPart)), msg.HTMLBody)

	first, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", first.FileName())
	assert.Equal(t, []byte("%PDF-1.4 fake content"), decodePart(t, first))

	second, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "list motywacyjny.docx", second.FileName())
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, 300), decodePart(t, second))

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestBuildMIME_NoAttachments(t *testing.T) {
	msg := &Message{
		From:     "support@example.com",
		To:       "recruitment@example.com",
		Subject:  "New application for position: inne",
		HTMLBody: "<p>body</p>",
	}

	raw, err := BuildMIME(msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)

	mr := multipart.NewReader(parsed.Body, params["boundary"])
	_, err = mr.NextPart()
	require.NoError(t, err)
	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestBuildMIME_LinesWithin998Limit(t *testing.T) {
	msg := &Message{
		From:     "support@example.com",
		To:       "recruitment@example.com",
		Subject:  "subject",
		HTMLBody: strings.Repeat("x", 50_000),
	}

	raw, err := BuildMIME(msg)
	require.NoError(t, err)

	for _, line := range bytes.Split(raw, []byte("\r\n")) {
		assert.LessOrEqual(t, len(line), 998)
	}
}
