package notify

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Rendered - готовый текст для обоих каналов
type Rendered struct {
	Subject   string
	EmailBody string
	SMSBody   string
}

type templateData struct {
	Name  string
	Kind  string
	Title string
}

var subjects = map[Event]string{
	EventAccountVerified: "Your Iskort account has been verified",
	EventAccountRejected: "Your Iskort registration was not approved",
	EventListingVerified: "Your listing has been verified",
	EventListingRejected: "Your listing was not approved",
}

var smsTexts = map[Event]string{
	EventAccountVerified: "Iskort: hi {{.Name}}, your {{.Kind}} account has been verified. You can now log in.",
	EventAccountRejected: "Iskort: hi {{.Name}}, your {{.Kind}} registration was not approved.",
	EventListingVerified: "Iskort: your {{.Kind}} listing \"{{.Title}}\" has been verified.",
	EventListingRejected: "Iskort: your {{.Kind}} listing \"{{.Title}}\" was not approved and has been removed.",
}

// Templates рендерит письма (html/template) и SMS (text/template)
type Templates struct {
	email *template.Template
	sms   map[Event]*texttemplate.Template
}

func NewTemplates() (*Templates, error) {
	email, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	sms := make(map[Event]*texttemplate.Template, len(smsTexts))
	for event, text := range smsTexts {
		tpl, err := texttemplate.New(string(event)).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse sms template %s: %w", event, err)
		}
		sms[event] = tpl
	}

	return &Templates{email: email, sms: sms}, nil
}

// MustTemplates - для инициализации при старте, шаблоны встроены в бинарник
func MustTemplates() *Templates {
	t, err := NewTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(msg Message) (*Rendered, error) {
	subject, ok := subjects[msg.Event]
	if !ok {
		return nil, fmt.Errorf("unknown notification event %q", msg.Event)
	}

	data := templateData{
		Name:  msg.Contact.Name,
		Kind:  string(msg.SubjectKind),
		Title: msg.Title,
	}

	var emailBody strings.Builder
	if err := t.email.ExecuteTemplate(&emailBody, string(msg.Event)+".html", data); err != nil {
		return nil, fmt.Errorf("render email %s: %w", msg.Event, err)
	}

	var smsBody strings.Builder
	if err := t.sms[msg.Event].Execute(&smsBody, data); err != nil {
		return nil, fmt.Errorf("render sms %s: %w", msg.Event, err)
	}

	return &Rendered{
		Subject:   subject,
		EmailBody: emailBody.String(),
		SMSBody:   smsBody.String(),
	}, nil
}
