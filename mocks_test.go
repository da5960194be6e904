package auth_test

import (
	"context"
	"sync"
	"time"
)

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

// recordingNotifier captures outgoing messages and can be told to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	fail error
	sent []sentMessage
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail != nil {
		return n.fail
	}

	n.sent = append(n.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordingNotifier) last() sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

// testClock is a manually advanced time source.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
