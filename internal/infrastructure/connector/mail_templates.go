package connector

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	verificationTemplate  = "verification.html"
	resetPasswordTemplate = "reset_password.html"
	welcomeTemplate       = "welcome.html"
)

const (
	verificationSubject  = "Verify your e-mail address"
	resetPasswordSubject = "Reset your password"
	welcomeSubject       = "Welcome to Notes"
)

// mailData is passed to every template
type mailData struct {
	Subject   string
	Name      string
	Link      string
	ExpiresIn string
}

// mail is a rendered message ready for delivery
type mail struct {
	To      string
	Subject string
	Body    string
	Link    string
}

// mailRenderer renders the embedded templates and builds the links into the frontend
type mailRenderer struct {
	frontendURL     string
	verificationTTL time.Duration
	resetTTL        time.Duration
	templates       map[string]*template.Template
}

func newMailRenderer(frontendURL string, verificationTTL, resetTTL time.Duration) (*mailRenderer, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{verificationTemplate, resetPasswordTemplate, welcomeTemplate} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mail template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &mailRenderer{
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		templates:       templates,
	}, nil
}

func (r *mailRenderer) link(path, token string) string {
	if token == "" {
		return r.frontendURL + path
	}
	return r.frontendURL + path + "?token=" + url.QueryEscape(token)
}

func (r *mailRenderer) render(name, to, subject string, data mailData) (*mail, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown mail template %s", name)
	}

	data.Subject = subject
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, fmt.Errorf("failed to render mail template %s: %w", name, err)
	}

	return &mail{To: to, Subject: subject, Body: buf.String(), Link: data.Link}, nil
}

func (r *mailRenderer) verification(to, name, token string) (*mail, error) {
	return r.render(verificationTemplate, to, verificationSubject, mailData{
		Name:      name,
		Link:      r.link("/verify-email", token),
		ExpiresIn: humanDuration(r.verificationTTL),
	})
}

func (r *mailRenderer) passwordReset(to, name, token string) (*mail, error) {
	return r.render(resetPasswordTemplate, to, resetPasswordSubject, mailData{
		Name:      name,
		Link:      r.link("/reset-password", token),
		ExpiresIn: humanDuration(r.resetTTL),
	})
}

func (r *mailRenderer) welcome(to, name string) (*mail, error) {
	return r.render(welcomeTemplate, to, welcomeSubject, mailData{
		Name: name,
		Link: r.link("/", ""),
	})
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case d >= time.Minute && d%time.Minute == 0:
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	default:
		return d.String()
	}
}
