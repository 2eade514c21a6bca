package session

import (
	"time"

	"github.com/Zetic/zpt/utils"
	"github.com/diamondburned/arikawa/v3/discord"
)

// Manager tracks live sessions by the message they render into, so
// component interactions can be routed back to them. Entries for long
// dead sessions age out of the map on their own.
type Manager struct {
	messenger Messenger
	sessions  utils.ForgetfulMap[discord.MessageID, *Session]
}

func NewManager(m Messenger) *Manager {
	return &Manager{
		messenger: m,
		sessions:  utils.NewForgetfulMap[discord.MessageID, *Session](24 * time.Hour),
	}
}

func (m *Manager) Create(channelID discord.ChannelID, messageID discord.MessageID, timeout time.Duration) *Session {
	s := New(m.messenger, channelID, messageID, timeout)
	m.sessions.Set(messageID, s)
	return s
}

func (m *Manager) Get(messageID discord.MessageID) (*Session, bool) {
	return m.sessions.Get(messageID)
}
