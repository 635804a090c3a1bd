package model

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/enums"
)

type Agent struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Bio           string      `json:"bio"`
	Interests     []string    `json:"interests"`
	CurrentMood   *enums.Mood `json:"current_mood"`
	Karma         int         `json:"karma"`
	APIKey        string      `json:"-"`
	ClaimToken    string      `json:"-"`
	IsClaimed     bool        `json:"is_claimed"`
	IsVerified    bool        `json:"is_verified"`
	ShowWallet    bool        `json:"show_wallet"`
	WalletAddress *string     `json:"wallet_address,omitempty"`
	TwitterHandle *string     `json:"twitter_handle"`
	AvatarURL     *string     `json:"avatar_url"`
	MoltbookKarma int         `json:"moltbook_karma"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AgentSummary is the short form embedded in matches and messages.
type AgentSummary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Bio       string      `json:"bio,omitempty"`
	Interests []string    `json:"interests,omitempty"`
	Mood      *enums.Mood `json:"current_mood,omitempty"`
	AvatarURL *string     `json:"avatar_url,omitempty"`
}

func (a Agent) Summary() AgentSummary {
	return AgentSummary{
		ID:        a.ID,
		Name:      a.Name,
		Bio:       a.Bio,
		Interests: a.Interests,
		Mood:      a.CurrentMood,
		AvatarURL: a.AvatarURL,
	}
}

// AgentUpdate carries optional profile changes. Unset fields are left untouched;
// SetMood with a nil CurrentMood clears the mood.
type AgentUpdate struct {
	Bio           *string
	Interests     []string
	SetInterests  bool
	CurrentMood   *enums.Mood
	SetMood       bool
	TwitterHandle *string
}

func (u AgentUpdate) Empty() bool {
	return u.Bio == nil && !u.SetInterests && !u.SetMood && u.TwitterHandle == nil
}
