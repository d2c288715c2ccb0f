package model

// CollectionMessageProfiles stores AI messenger profiles.
const CollectionMessageProfiles = "message_profiles"

// MessageProfile configures an AI chat persona.
type MessageProfile struct {
	Base
	Name         string   `json:"name" validate:"notblank"`
	SystemPrompt string   `json:"system_prompt" validate:"notblank"`
	AllowedFiles []string `json:"allowed_files" validate:"dive,notblank,ne=.,ne=..,excludesall=/\\"`
	Model        string   `json:"model,omitempty"`
}

func (p MessageProfile) RecordKey() string   { return p.Name }
func (p MessageProfile) RecordTitle() string { return p.Name }

// Allows reports whether file is in the profile's allow list.
func (p MessageProfile) Allows(file string) bool {
	for _, f := range p.AllowedFiles {
		if f == file {
			return true
		}
	}
	return false
}

// ChatMessage is one turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content" validate:"notblank"`
}
