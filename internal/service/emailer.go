package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/raymond"

	"vaultcast/internal/ai"
	"vaultcast/internal/mailer"
	"vaultcast/internal/model"
	"vaultcast/internal/repository"
	"vaultcast/internal/validation"
)

// RenderRequest selects a design directly or through a saved template.
type RenderRequest struct {
	DesignID   string            `json:"design_id"`
	TemplateID string            `json:"template_id"`
	Values     map[string]string `json:"values"`
}

// Rendered is a rendered email body.
type Rendered struct {
	Subject string `json:"subject,omitempty"`
	HTML    string `json:"html"`
}

// ComposeRequest asks the model to draft email copy.
type ComposeRequest struct {
	Prompt string `json:"prompt" validate:"notblank"`
	Tone   string `json:"tone"`
}

// SendRequest sends either raw HTML or a rendered design/template.
type SendRequest struct {
	To         []string          `json:"to" validate:"min=1,dive,email"`
	Subject    string            `json:"subject"`
	HTML       string            `json:"html"`
	DesignID   string            `json:"design_id"`
	TemplateID string            `json:"template_id"`
	Values     map[string]string `json:"values"`
}

// SendResult reports the provider's message id.
type SendResult struct {
	MessageID string `json:"message_id"`
}

const composeSystemPrompt = "You write concise, well-structured marketing and personal emails. " +
	"Reply with the email body only, without a subject line."

// Emailer holds designs and templates and the render/compose/send use cases.
type Emailer struct {
	Designs   *Records[model.EmailDesign, *model.EmailDesign]
	Templates *Records[model.EmailTemplate, *model.EmailTemplate]
	completer ai.Completer
	sender    mailer.Sender
}

// NewEmailer wires the emailer. sender may be nil when Gmail is not configured.
func NewEmailer(repo repository.DocumentRepository, completer ai.Completer, sender mailer.Sender) *Emailer {
	e := &Emailer{
		Designs:   NewRecords[model.EmailDesign](repo, model.CollectionEmailDesigns),
		Templates: NewRecords[model.EmailTemplate](repo, model.CollectionEmailTemplates),
		completer: completer,
		sender:    sender,
	}
	e.Designs.check = checkDesign
	e.Templates.check = e.checkTemplate
	return e
}

func checkDesign(_ context.Context, d *model.EmailDesign) error {
	if _, err := raymond.Parse(d.HTML); err != nil {
		return validation.Fail("html", fmt.Sprintf("html is not a valid template: %v", err))
	}
	return nil
}

func (e *Emailer) checkTemplate(ctx context.Context, t *model.EmailTemplate) error {
	if _, err := e.Designs.Get(ctx, t.DesignID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return validation.Fail("design_id", "design_id references an unknown design")
		}
		return err
	}
	return nil
}

// Render merges design defaults, template values and request values, in that
// order, and executes the design's Handlebars source.
func (e *Emailer) Render(ctx context.Context, req RenderRequest) (*Rendered, error) {
	designID := req.DesignID
	values := map[string]string{}
	var subject string

	var tmpl *model.EmailTemplate
	if req.TemplateID != "" {
		t, err := e.Templates.Get(ctx, req.TemplateID)
		if err != nil {
			return nil, err
		}
		tmpl = t
		designID = t.DesignID
		subject = t.Subject
	}
	if designID == "" {
		return nil, validation.Fail("design_id", "design_id or template_id is required")
	}

	design, err := e.Designs.Get(ctx, designID)
	if err != nil {
		if errors.Is(err, ErrNotFound) && tmpl == nil {
			return nil, validation.Fail("design_id", "design_id references an unknown design")
		}
		return nil, err
	}

	for k, v := range design.Defaults() {
		values[k] = v
	}
	if tmpl != nil {
		for k, v := range tmpl.Values {
			values[k] = v
		}
	}
	for k, v := range req.Values {
		values[k] = v
	}

	html, err := raymond.Render(design.HTML, values)
	if err != nil {
		return nil, fmt.Errorf("render design %s: %w", design.ID, err)
	}
	return &Rendered{Subject: subject, HTML: html}, nil
}

// Compose streams a drafted email body to onChunk.
func (e *Emailer) Compose(ctx context.Context, req ComposeRequest, onChunk func(string) error) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	system := composeSystemPrompt
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		system += " Use a " + tone + " tone."
	}
	err := e.completer.Stream(ctx, system, []model.ChatMessage{{Role: "user", Content: req.Prompt}}, onChunk)
	if errors.Is(err, ai.ErrNotConfigured) {
		return ErrAIUnavailable
	}
	return err
}

// Send renders (unless raw HTML is given) and delivers the email.
func (e *Emailer) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if e.sender == nil {
		return nil, ErrMailUnavailable
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	html, subject := req.HTML, req.Subject
	if html == "" {
		r, err := e.Render(ctx, RenderRequest{DesignID: req.DesignID, TemplateID: req.TemplateID, Values: req.Values})
		if err != nil {
			return nil, err
		}
		html = r.HTML
		if subject == "" {
			subject = r.Subject
		}
	}
	if strings.TrimSpace(subject) == "" {
		return nil, validation.Fail("subject", "subject is required")
	}

	id, err := e.sender.Send(ctx, mailer.Message{To: req.To, Subject: subject, HTML: html})
	if err != nil {
		if errors.Is(err, mailer.ErrInvalidRecipient) {
			return nil, validation.Fail("to", err.Error())
		}
		return nil, err
	}
	return &SendResult{MessageID: id}, nil
}
