package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"vaultcast/internal/ai"
	"vaultcast/internal/model"
	"vaultcast/internal/repository"
	"vaultcast/internal/storage"
	"vaultcast/internal/validation"
)

// MaxAttachmentBytes caps how much of one file is inlined into a chat prompt.
const MaxAttachmentBytes = 256 << 10

// ErrReaderNil is returned when an upload has no body.
var ErrReaderNil = errors.New("reader is nil")

// ChatRequest is one messenger turn.
type ChatRequest struct {
	ProfileID string              `json:"profile_id" validate:"notblank"`
	Messages  []model.ChatMessage `json:"messages" validate:"min=1,dive"`
	Files     []string            `json:"files"`
}

// Messenger holds message profiles, their attachment files and the chat use case.
type Messenger struct {
	Profiles  *Records[model.MessageProfile, *model.MessageProfile]
	files     storage.Storage
	completer ai.Completer
}

// NewMessenger wires the messenger. files stores profile attachments.
func NewMessenger(repo repository.DocumentRepository, files storage.Storage, completer ai.Completer) *Messenger {
	return &Messenger{
		Profiles:  NewRecords[model.MessageProfile](repo, model.CollectionMessageProfiles),
		files:     files,
		completer: completer,
	}
}

func attachmentKey(profileID, name string) string {
	return path.Join("messenger", profileID, path.Base(strings.ReplaceAll(name, `\`, "/")))
}

// attachmentName reduces an uploaded file name to its last path segment.
func attachmentName(filename string) (string, bool) {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", false
	}
	return name, true
}

// UploadFile stores an attachment and adds it to the profile's allow list. A
// new object is removed again if the profile cannot be saved; re-uploading an
// allowed name only replaces the object.
func (m *Messenger) UploadFile(ctx context.Context, profileID string, r io.Reader, filename, contentType string, size int64) (*model.MessageProfile, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	p, err := m.Profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	name, ok := attachmentName(filename)
	if !ok {
		return nil, validation.Fail("file", "file name is required")
	}

	key := attachmentKey(profileID, name)
	if _, err := m.files.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"profile-id": profileID},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if p.Allows(name) {
		return p, nil
	}
	p.AllowedFiles = append(p.AllowedFiles, name)
	updated, err := m.Profiles.Update(ctx, profileID, *p)
	if err != nil {
		if delErr := m.files.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return updated, nil
}

// DeleteFile removes an attachment from storage, then from the allow list.
func (m *Messenger) DeleteFile(ctx context.Context, profileID, name string) (*model.MessageProfile, error) {
	p, err := m.Profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !p.Allows(name) {
		return nil, ErrNotFound
	}
	if err := m.files.Delete(ctx, attachmentKey(profileID, name)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("delete storage: %w", err)
	}
	kept := make([]string, 0, len(p.AllowedFiles))
	for _, f := range p.AllowedFiles {
		if f != name {
			kept = append(kept, f)
		}
	}
	p.AllowedFiles = kept
	return m.Profiles.Update(ctx, profileID, *p)
}

// BuildPrompt returns the profile's system prompt followed by the requested
// attachments. Files outside the allow list yield ErrFileNotAllowed.
func (m *Messenger) BuildPrompt(ctx context.Context, p *model.MessageProfile, files []string) (string, error) {
	var b strings.Builder
	b.WriteString(p.SystemPrompt)
	for i, name := range files {
		if !p.Allows(name) {
			return "", fmt.Errorf("%w: %s", ErrFileNotAllowed, name)
		}
		rc, _, err := m.files.Get(ctx, attachmentKey(p.ID, name))
		if err != nil {
			return "", fmt.Errorf("read attachment %s: %w", name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, MaxAttachmentBytes))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read attachment %s: %w", name, err)
		}
		if i == 0 {
			b.WriteString("\n\nReference files:")
		}
		fmt.Fprintf(&b, "\n\n### %s\n%s", name, data)
	}
	return b.String(), nil
}

// Chat streams the assistant's reply to onChunk.
func (m *Messenger) Chat(ctx context.Context, req ChatRequest, onChunk func(string) error) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	p, err := m.Profiles.Get(ctx, req.ProfileID)
	if err != nil {
		return err
	}
	system, err := m.BuildPrompt(ctx, p, req.Files)
	if err != nil {
		return err
	}
	if err := m.completer.Stream(ctx, system, req.Messages, onChunk); err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return ErrAIUnavailable
		}
		return err
	}
	return nil
}
