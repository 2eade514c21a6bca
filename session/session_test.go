package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

type fakeMessenger struct {
	mu    sync.Mutex
	edits []api.EditMessageData
	fail  bool
}

func (f *fakeMessenger) EditMessageComplex(ch discord.ChannelID, id discord.MessageID, data api.EditMessageData) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, errors.New("edit rejected")
	}

	f.edits = append(f.edits, data)
	return &discord.Message{ID: id, ChannelID: ch}, nil
}

func (f *fakeMessenger) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.edits)
}

func newTestSession(t *testing.T, m Messenger, timeout time.Duration) *Session {
	t.Helper()
	return New(m, 1, 2, timeout)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	for _, rec := range makeRecords(t, 2) {
		if err := s.AppendOutput(rec); err != nil {
			t.Fatal(err)
		}
	}

	s.Finalize()
	s.Finalize()

	if got := m.editCount(); got != 1 {
		t.Fatalf("expected exactly 1 message edit, got %d", got)
	}
	if !s.Finalized() {
		t.Error("session should report finalized")
	}
}

func TestFinalizeWithZeroOutputs(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	s.Finalize()

	if got := m.editCount(); got != 1 {
		t.Fatalf("expected 1 message edit, got %d", got)
	}

	data := m.edits[0]
	if data.Embeds == nil || len(*data.Embeds) != 1 {
		t.Fatal("zero-output finalize should still produce the informational embed")
	}
	if data.Components == nil || len(*data.Components) != 0 {
		t.Error("finalize must strip all components")
	}
	if data.Attachments == nil || len(*data.Attachments) != 0 {
		t.Error("finalize must clear stale attachments")
	}
	if !strings.Contains(data.Content.Val, "Timed out") {
		t.Errorf("content = %q, want timeout banner", data.Content.Val)
	}
}

func TestAppendAfterFinalizeIsRejected(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	s.Finalize()

	err := s.AppendOutput(makeRecords(t, 1)[0])
	if !errors.Is(err, ErrSessionFinalized) {
		t.Fatalf("expected ErrSessionFinalized, got %v", err)
	}
	if s.OutputCount() != 0 {
		t.Error("finalized session must not accept outputs")
	}
}

func TestControlAfterFinalizeIsNoOp(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	s.Finalize()

	reply, ok := s.HandleControl(ControlOutputs, 42)
	if ok || reply != "" {
		t.Errorf("finalized session should ignore controls, got %q (ok=%v)", reply, ok)
	}
	if got := m.editCount(); got != 1 {
		t.Errorf("control after finalize must not edit the message, got %d edits", got)
	}
}

func TestControlBusyNotice(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	if !s.TryBeginProcessing() {
		t.Fatal("first TryBeginProcessing should succeed")
	}
	if s.TryBeginProcessing() {
		t.Fatal("second TryBeginProcessing should fail while busy")
	}

	reply, ok := s.HandleControl(ControlProcess, 42)
	if !ok || !strings.Contains(reply, "already in progress") {
		t.Errorf("expected busy notice, got %q (ok=%v)", reply, ok)
	}

	s.EndProcessing()
	if !s.TryBeginProcessing() {
		t.Error("TryBeginProcessing should succeed again after EndProcessing")
	}
}

func TestControlOutputsSummary(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	for _, rec := range makeRecords(t, 2) {
		if err := s.AppendOutput(rec); err != nil {
			t.Fatal(err)
		}
	}

	reply, ok := s.HandleControl(ControlOutputs, 42)
	if !ok || !strings.Contains(reply, "2 output") {
		t.Errorf("expected output count summary, got %q (ok=%v)", reply, ok)
	}
}

func TestIdleTimerFinalizes(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, 50*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for !s.Finalized() {
		if time.Now().After(deadline) {
			t.Fatal("session never finalized from the idle timer")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if got := m.editCount(); got != 1 {
		t.Errorf("expected 1 edit from the timer, got %d", got)
	}
}

func TestControlActivationResetsTimer(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, 300*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	if _, ok := s.HandleControl(ControlOutputs, 42); !ok {
		t.Fatal("control on active session should be handled")
	}

	time.Sleep(200 * time.Millisecond)
	if s.Finalized() {
		t.Fatal("control activation should have pushed the deadline back")
	}

	time.Sleep(300 * time.Millisecond)
	if !s.Finalized() {
		t.Error("session should finalize once the reset deadline elapses")
	}
}

func TestAppendDoesNotResetTimer(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, 300*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	if err := s.AppendOutput(makeRecords(t, 1)[0]); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if !s.Finalized() {
		t.Error("output appends are not session activity; the timer should have fired")
	}
}

func TestStaleTimerCallbackDoesNotFinalize(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)

	// A control activation can reset the timer just after it fired; the
	// stale callback must notice the recent activity and back off.
	s.idleExpired()
	if s.Finalized() {
		t.Fatal("session finalized despite recent activity")
	}
	if got := m.editCount(); got != 0 {
		t.Fatalf("stale callback edited the message %d time(s)", got)
	}

	s.mu.Lock()
	s.lastActivity = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	s.idleExpired()
	if !s.Finalized() {
		t.Fatal("session should finalize once the idle window has elapsed")
	}
	if got := m.editCount(); got != 1 {
		t.Errorf("editCount = %d, want 1", got)
	}
}

func TestFinalizeFallsBackWhenRenderPanics(t *testing.T) {
	m := &fakeMessenger{}
	s := newTestSession(t, m, time.Hour)
	s.render = func([]*OutputRecord, bool) RenderResult {
		panic("render blew up")
	}

	s.Finalize()

	if got := m.editCount(); got != 1 {
		t.Fatalf("fallback should still edit the message once, got %d", got)
	}
	if !strings.Contains(m.edits[0].Content.Val, "Timed out") {
		t.Errorf("fallback content = %q, want timeout banner", m.edits[0].Content.Val)
	}
	if !s.Finalized() {
		t.Error("session must finalize even when rendering fails")
	}
}

func TestFinalizeSwallowsEditFailure(t *testing.T) {
	m := &fakeMessenger{fail: true}
	s := newTestSession(t, m, time.Hour)

	s.Finalize()

	if !s.Finalized() {
		t.Error("a rejected edit must not keep the session alive")
	}
}

func TestManagerRoutesByMessageID(t *testing.T) {
	m := &fakeMessenger{}
	mgr := NewManager(m)

	s := mgr.Create(1, 2, time.Hour)
	got, ok := mgr.Get(2)
	if !ok || got != s {
		t.Fatal("manager should return the session tracked for its message")
	}

	if _, ok := mgr.Get(3); ok {
		t.Error("unknown message should not resolve to a session")
	}
}
