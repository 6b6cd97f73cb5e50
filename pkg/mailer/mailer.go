package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// layout wraps rendered markdown in a minimal HTML document. Transactional
// messages like verification codes do not need branded markup.
const layout = `<!DOCTYPE html><html><body>%s</body></html>`

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
}

// Mailer renders markdown templates and dispatches them through a Sender.
type Mailer struct {
	sender Sender
	fs     fs.FS
	md     goldmark.Markdown
	config Config

	mu    sync.RWMutex
	cache map[string]*template
}

// New creates a Mailer reading templates from the given filesystem.
func New(sender Sender, templates fs.FS, cfg Config) *Mailer {
	return &Mailer{
		sender: sender,
		fs:     templates,
		md:     goldmark.New(),
		config: cfg,
		cache:  make(map[string]*template),
	}
}

// SendParams describes one templated message.
type SendParams struct {
	To       string
	Template string // template filename, e.g. "verify_domain.md"
	Data     any    // template data for body and subject
	ReplyTo  string
}

// Send renders the template and delivers the message. The subject comes from
// the template's frontmatter (itself treated as a text/template) with the
// configured fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	tmpl, err := m.template(params.Template)
	if err != nil {
		return err
	}

	body, err := execute("body", tmpl.body, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}
	subject, err := execute("subject", tmpl.subject(m.config.FallbackSubject), params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	var html bytes.Buffer
	if err := m.md.Convert([]byte(body), &html); err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	email := &Email{
		To:      params.To,
		ReplyTo: params.ReplyTo,
		Subject: subject,
		HTML:    fmt.Sprintf(layout, html.String()),
		Text:    body,
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

func (m *Mailer) template(name string) (*template, error) {
	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	content, err := fs.ReadFile(m.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	tmpl, err := parseTemplate(content)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[name] = tmpl
	m.mu.Unlock()
	return tmpl, nil
}

func execute(name, text string, data any) (string, error) {
	tmpl, err := texttemplate.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
