package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/google/uuid"
)

var ErrSessionFinalized = errors.New("session already finalized")

// Session accumulates output images for one interactive request and owns
// the single message it renders into. It is ACTIVE until the idle timer
// fires, after which it is finalized for good: no more outputs, no more
// control activations, controls stripped from the message.
//
// The idle timer is reset by control activations only, never by output
// appends.
type Session struct {
	ID        string
	ChannelID discord.ChannelID
	MessageID discord.MessageID

	messenger Messenger
	timeout   time.Duration
	render    func([]*OutputRecord, bool) RenderResult

	mu           sync.Mutex
	outputs      []*OutputRecord
	finalized    bool
	busy         bool
	timer        *time.Timer
	lastActivity time.Time
}

func New(m Messenger, channelID discord.ChannelID, messageID discord.MessageID, timeout time.Duration) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		MessageID: messageID,
		messenger: m,
		timeout:   timeout,
		render:    Render,
	}

	s.lastActivity = time.Now()
	s.timer = time.AfterFunc(timeout, s.idleExpired)
	return s
}

// idleExpired runs when the idle timer fires. A control activation can
// reset the timer after it has already fired; when that happens the
// callback is stale and must not finalize, so it checks the activity
// timestamp first.
func (s *Session) idleExpired() {
	s.mu.Lock()
	if s.finalized || time.Since(s.lastActivity) < s.timeout {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.Finalize()
}

// AppendOutput stores a completed generation. A generation that finishes
// after the session finalized is dropped with ErrSessionFinalized; the
// caller logs and moves on.
func (s *Session) AppendOutput(rec *OutputRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSessionFinalized
	}

	s.outputs = append(s.outputs, rec)
	return nil
}

func (s *Session) OutputCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.outputs)
}

func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finalized
}

// TryBeginProcessing marks a generation in flight. It fails if one
// already is, or if the session has finalized.
func (s *Session) TryBeginProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized || s.busy {
		return false
	}

	s.busy = true
	return true
}

func (s *Session) EndProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
}

// Render builds the message content for the current outputs. Read-only;
// callable at any time.
func (s *Session) Render(finalized bool) RenderResult {
	return s.render(s.snapshot(), finalized)
}

// HandleControl processes a button press. The returned reply is shown
// ephemerally to the requester; ok is false when the session already
// finalized and the activation must be ignored outright.
func (s *Session) HandleControl(control discord.ComponentID, requester discord.UserID) (reply string, ok bool) {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return "", false
	}

	// Control activity keeps the session alive.
	s.lastActivity = time.Now()
	s.timer.Reset(s.timeout)
	busy := s.busy
	count := len(s.outputs)
	s.mu.Unlock()

	switch control {
	case ControlProcess:
		if busy {
			return "**Error:** An image edit is already in progress for this session.", true
		}
		return "Reply to the original image with a new prompt to run another edit.", true
	case ControlOutputs:
		return fmt.Sprintf("This session has %d output image(s) so far.", count), true
	}

	return "", false
}

// Finalize collapses the session into its terminal render and applies it
// to the owned message. It is idempotent; only the first call edits the
// message. It never lets a render failure keep the session alive: a
// minimal text-only edit is applied instead.
func (s *Session) Finalize() {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return
	}

	s.finalized = true
	s.timer.Stop()
	s.mu.Unlock()

	res := s.safeRender()

	data := api.EditMessageData{
		Content:     option.NewNullableString(res.Content),
		Embeds:      &res.Embeds,
		Files:       res.Files,
		Attachments: &[]discord.Attachment{},
		Components:  &discord.ContainerComponents{},
	}

	if _, err := s.messenger.EditMessageComplex(s.ChannelID, s.MessageID, data); err != nil {
		log.Println("Could not edit session message on finalize:", err)
	}
}

func (s *Session) snapshot() []*OutputRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := make([]*OutputRecord, len(s.outputs))
	copy(outputs, s.outputs)
	return outputs
}

func (s *Session) safeRender() (res RenderResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Render failed during finalize:", r)
			res = RenderResult{
				Content: TimeoutBanner + " (The output images could not be prepared.)",
				Embeds:  []discord.Embed{},
			}
		}
	}()

	return s.render(s.snapshot(), true)
}
