package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type reportView struct {
	Description template.HTML
	CTA         string
	CTAURL      string
	Table       template.HTML
	Images      []template.URL
}

// Composer renders report content into an email body.
type Composer struct {
	opts  Options
	newID func() string
	// sender, when set and non-empty, overrides opts.MailFrom.
	sender func() string
}

func NewComposer(opts Options) *Composer {
	return &Composer{opts: opts, newID: uuid.NewString}
}

func (c *Composer) mailFrom() string {
	if c.sender != nil {
		if from := c.sender(); from != "" {
			return from
		}
	}
	return c.opts.MailFrom
}

// Compose renders content. When content carries an error text the body is
// only that error; otherwise the body holds the sanitized description, the
// call to action, the table and one inline image per screenshot, and the CSV
// (if any) is attached as <name>.csv.
func (c *Composer) Compose(content Content) (EmailContent, error) {
	if content.Text != "" {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, "error.html", content.Text); err != nil {
			return EmailContent{}, fmt.Errorf("render error body: %w", err)
		}
		return EmailContent{Body: buf.String(), HeaderData: content.HeaderData}, nil
	}

	var images []InlineImage
	if len(content.Screenshots) > 0 {
		domain, err := mailDomain(c.mailFrom())
		if err != nil {
			return EmailContent{}, err
		}
		for _, shot := range content.Screenshots {
			images = append(images, InlineImage{ContentID: c.newID() + "@" + domain, Data: shot})
		}
	}

	view := reportView{
		// Both fragments have been through an allow-list sanitizer.
		Description: template.HTML(Sanitize(content.Description)),
		CTA:         c.opts.CTA,
		CTAURL:      c.opts.CTAURL,
	}
	if content.EmbeddedData != nil {
		view.Table = template.HTML(SanitizeTable(content.EmbeddedData.HTML()))
	}
	for _, img := range images {
		view.Images = append(view.Images, template.URL("cid:"+img.ContentID))
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report.html", view); err != nil {
		return EmailContent{}, fmt.Errorf("render report body: %w", err)
	}

	var data map[string][]byte
	if len(content.CSV) > 0 {
		data = map[string][]byte{content.Name + ".csv": content.CSV}
	}

	return EmailContent{
		Body:       buf.String(),
		HeaderData: content.HeaderData,
		Data:       data,
		Images:     images,
	}, nil
}

// mailDomain returns the domain part of the sender address.
func mailDomain(from string) (string, error) {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return "", fmt.Errorf("parse mail from %q: %w", from, err)
	}
	at := strings.LastIndexByte(addr.Address, '@')
	if at < 0 || at == len(addr.Address)-1 {
		return "", fmt.Errorf("mail from %q has no domain", from)
	}
	return addr.Address[at+1:], nil
}
