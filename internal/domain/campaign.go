package domain

import "fmt"

// CampaignType identifies the kind of work a campaign distributes.
type CampaignType string

// Campaign types known to the remote service. Only audio campaigns are
// processed by this tool.
const (
	CampaignTypeAudio CampaignType = "AUDIO"
	CampaignTypeText  CampaignType = "TEXT"
	CampaignTypeImage CampaignType = "IMAGE"
)

// Campaign is a remote-defined unit of work. Eligibility for processing
// requires an audio campaign with scripted content and at least one
// supported language.
type Campaign struct {
	ID                 string       `json:"virtual_id"`
	Type               CampaignType `json:"campaign_type"`
	Scripted           bool         `json:"is_scripted"`
	SupportedLanguages []string     `json:"supported_languages"`
}

// Eligible reports whether the campaign can be processed by the audio
// upload pipeline.
func (c Campaign) Eligible() bool {
	return c.Type == CampaignTypeAudio && c.Scripted && len(c.SupportedLanguages) > 0
}

// Language returns the language code the pipeline works in: the first
// supported language. Callers must only invoke this on eligible
// campaigns.
func (c Campaign) Language() string {
	return c.SupportedLanguages[0]
}

// Quota is the remote-enforced submission allowance for one
// (account, campaign) pair. The remote service is authoritative: the
// workflow re-fetches it after every attempt instead of decrementing a
// local copy.
type Quota struct {
	Remaining int `json:"remaining"`
	Cap       int `json:"cap"`
}

// Exhausted reports whether no submissions remain.
func (q Quota) Exhausted() bool {
	return q.Remaining <= 0
}

// ScriptAssignment is one unit of scripted text handed out by the
// remote service. Assignments are fetched fresh per upload attempt and
// never reused.
type ScriptAssignment struct {
	AssignmentID string
	Content      string
}

// Validate checks the assignment carries usable content.
func (s ScriptAssignment) Validate() error {
	if s.Content == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyScript)
	}
	return nil
}
