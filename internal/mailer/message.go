package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/csight/reportd/internal/media"
)

func init() {
	// Not every system mime.types knows about CSV.
	_ = mime.AddExtensionType(".csv", "text/csv; charset=utf-8")
}

// Inline is an image referenced from the HTML body as cid:<ContentID>.
type Inline struct {
	ContentID string
	Data      []byte
}

// Report is a rendered report email.
type Report struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments map[string][]byte
	Images      []Inline
	Headers     map[string]string
}

// buildReport writes a multipart/related message: the HTML part first, then
// data attachments, then inline images.
func buildReport(cfg Config, r Report, date time.Time) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writeHTMLPart(writer, r.HTMLBody); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(r.Attachments))
	for name := range r.Attachments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeAttachment(writer, name, r.Attachments[name]); err != nil {
			return nil, fmt.Errorf("attachment %s: %w", name, err)
		}
	}

	for _, img := range r.Images {
		if err := writeInlineImage(writer, img); err != nil {
			return nil, fmt.Errorf("inline image %s: %w", img.ContentID, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", cfg.fromHeader()))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(r.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(r.Subject)))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", date.Format(time.RFC1123Z)))
	for _, key := range sortedKeys(r.Headers) {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", textproto.CanonicalMIMEHeaderKey(key), encodeHeader(r.Headers[key])))
	}
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/related; boundary=%s\r\n", writer.Boundary()))
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

func writeHTMLPart(w *multipart.Writer, html string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Transfer-Encoding", "quoted-printable")

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(html)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, name string, data []byte) error {
	name = attachmentName(name)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", mime.FormatMediaType(mediaType(contentType), map[string]string{"name": name}))
	header.Set("Content-Transfer-Encoding", "base64")
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	return writeBase64Lines(part, data)
}

func writeInlineImage(w *multipart.Writer, img Inline) error {
	contentType, err := media.ImageContentType(img.Data)
	if err != nil {
		return err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "base64")
	header.Set("Content-ID", "<"+img.ContentID+">")
	header.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": img.ContentID}))

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	return writeBase64Lines(part, img.Data)
}

// writeBase64Lines writes data base64 encoded in 76-character lines per RFC 2045.
func writeBase64Lines(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		if _, err := io.WriteString(w, encoded[i:end]+"\r\n"); err != nil {
			return err
		}
	}
	return nil
}

// encodeHeader folds CR/LF out of a header value and RFC 2047 encodes it when
// it contains non-ASCII text.
func encodeHeader(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return mime.QEncoding.Encode("utf-8", s)
}

// attachmentName removes path components and control characters.
func attachmentName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_", "\x00", "", "\r", "", "\n", "").Replace(name)
	if len(name) > 100 {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	if name == "" {
		name = "attachment"
	}
	return name
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
