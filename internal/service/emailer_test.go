package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/ai"
	aiMocks "vaultcast/internal/ai/mocks"
	"vaultcast/internal/mailer"
	mailerMocks "vaultcast/internal/mailer/mocks"
	"vaultcast/internal/model"
	"vaultcast/internal/repository/memory"
)

func seedDesign(t *testing.T, e *Emailer) *model.EmailDesign {
	t.Helper()
	d, err := e.Designs.Create(context.Background(), model.EmailDesign{
		Name: "Newsletter",
		HTML: `<h1 style="color:{{accent}}">{{headline}}</h1><p>{{body}}</p>`,
		Customization: map[string]model.CustomizationField{
			"accent":   {Label: "Accent", Type: "color", Default: "#000"},
			"headline": {Label: "Headline", Type: "text", Default: "Hello"},
			"body":     {Label: "Body", Type: "textarea", Default: "Body"},
		},
	})
	require.NoError(t, err)
	return d
}

func TestEmailer_DesignsAndTemplates(t *testing.T) {
	ctx := context.Background()
	e := NewEmailer(memory.NewRecordsMemory(), nil, nil)
	d := seedDesign(t, e)

	_, err := e.Designs.Create(ctx, model.EmailDesign{Name: "Newsletter", HTML: "<p/>"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.Designs.Create(ctx, model.EmailDesign{Name: "Broken", HTML: "{{#if}}"})
	requireValidation(t, err, "html")

	_, err = e.Templates.Create(ctx, model.EmailTemplate{Name: "Orphan", DesignID: "missing"})
	requireValidation(t, err, "design_id")

	tmpl, err := e.Templates.Create(ctx, model.EmailTemplate{Name: "October", DesignID: d.ID, Subject: "October news", Values: map[string]string{"headline": "October"}})
	require.NoError(t, err)
	assert.Equal(t, d.ID, tmpl.DesignID)
}

func TestEmailer_Render(t *testing.T) {
	ctx := context.Background()
	e := NewEmailer(memory.NewRecordsMemory(), nil, nil)
	d := seedDesign(t, e)
	tmpl, err := e.Templates.Create(ctx, model.EmailTemplate{Name: "October", DesignID: d.ID, Subject: "October news", Values: map[string]string{"headline": "October", "accent": "#f00"}})
	require.NoError(t, err)

	out, err := e.Render(ctx, RenderRequest{DesignID: d.ID})
	require.NoError(t, err)
	assert.Equal(t, `<h1 style="color:#000">Hello</h1><p>Body</p>`, out.HTML)

	out, err = e.Render(ctx, RenderRequest{TemplateID: tmpl.ID, Values: map[string]string{"body": "Fresh <b>news</b>"}})
	require.NoError(t, err)
	assert.Equal(t, "October news", out.Subject)
	assert.Equal(t, `<h1 style="color:#f00">October</h1><p>Fresh &lt;b&gt;news&lt;/b&gt;</p>`, out.HTML)

	_, err = e.Render(ctx, RenderRequest{DesignID: "missing"})
	requireValidation(t, err, "design_id")

	_, err = e.Render(ctx, RenderRequest{})
	requireValidation(t, err, "design_id")

	_, err = e.Render(ctx, RenderRequest{TemplateID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailer_Compose(t *testing.T) {
	ctx := context.Background()
	completer := new(aiMocks.MockCompleter)
	completer.On("Stream", ctx, mock.MatchedBy(func(s string) bool {
		return s == composeSystemPrompt+" Use a friendly tone."
	}), []model.ChatMessage{{Role: "user", Content: "launch party"}}).Return([]string{"Hi ", "all"}, nil)

	e := NewEmailer(memory.NewRecordsMemory(), completer, nil)

	var got string
	err := e.Compose(ctx, ComposeRequest{Prompt: "launch party", Tone: "friendly"}, func(s string) error {
		got += s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi all", got)

	err = e.Compose(ctx, ComposeRequest{}, nil)
	requireValidation(t, err, "prompt")
	completer.AssertExpectations(t)
}

func TestEmailer_ComposeWithoutAPIKey(t *testing.T) {
	completer := new(aiMocks.MockCompleter)
	completer.On("Stream", mock.Anything, mock.Anything, mock.Anything).Return(nil, ai.ErrNotConfigured)

	e := NewEmailer(memory.NewRecordsMemory(), completer, nil)
	err := e.Compose(context.Background(), ComposeRequest{Prompt: "x"}, func(string) error { return nil })
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestEmailer_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		e := NewEmailer(memory.NewRecordsMemory(), nil, nil)
		_, err := e.Send(ctx, SendRequest{To: []string{"a@example.com"}, Subject: "s", HTML: "<p/>"})
		assert.ErrorIs(t, err, ErrMailUnavailable)
	})

	t.Run("renders template", func(t *testing.T) {
		sender := new(mailerMocks.MockSender)
		e := NewEmailer(memory.NewRecordsMemory(), nil, sender)
		d := seedDesign(t, e)
		tmpl, err := e.Templates.Create(ctx, model.EmailTemplate{Name: "T", DesignID: d.ID, Subject: "Subject from template"})
		require.NoError(t, err)

		sender.On("Send", ctx, mailer.Message{
			To:      []string{"a@example.com"},
			Subject: "Subject from template",
			HTML:    `<h1 style="color:#000">Hello</h1><p>Body</p>`,
		}).Return("msg-1", nil)

		res, err := e.Send(ctx, SendRequest{To: []string{"a@example.com"}, TemplateID: tmpl.ID})
		require.NoError(t, err)
		assert.Equal(t, "msg-1", res.MessageID)
		sender.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		sender := new(mailerMocks.MockSender)
		e := NewEmailer(memory.NewRecordsMemory(), nil, sender)

		_, err := e.Send(ctx, SendRequest{To: []string{"not-an-email"}, HTML: "<p/>", Subject: "s"})
		requireValidation(t, err, "to[0]")

		_, err = e.Send(ctx, SendRequest{To: []string{"a@example.com"}, HTML: "<p/>"})
		requireValidation(t, err, "subject")
	})

	t.Run("provider error", func(t *testing.T) {
		sender := new(mailerMocks.MockSender)
		sender.On("Send", ctx, mock.Anything).Return("", errors.New("quota"))
		e := NewEmailer(memory.NewRecordsMemory(), nil, sender)

		_, err := e.Send(ctx, SendRequest{To: []string{"a@example.com"}, HTML: "<p/>", Subject: "s"})
		assert.EqualError(t, err, "quota")
	})
}
