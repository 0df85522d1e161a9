package session

import (
	"sync"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
)

// Notice is a message posted by the controller
type Notice struct {
	Message  string
	Severity console.Severity
	Posted   time.Time
}

// NoticeBoard keeps the latest notice of a session until it expires.
// A newer notice replaces the current one.
type NoticeBoard struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	notice *Notice
}

// NewNoticeBoard creates a board whose notices live for ttl
func NewNoticeBoard(ttl time.Duration) *NoticeBoard {
	return &NoticeBoard{ttl: ttl, now: time.Now}
}

// Notify implements console.Notifier
func (b *NoticeBoard) Notify(message string, severity console.Severity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = &Notice{Message: message, Severity: severity, Posted: b.now()}
}

// Current returns the live notice, if any
func (b *NoticeBoard) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return Notice{}, false
	}
	if b.ttl > 0 && b.now().Sub(b.notice.Posted) >= b.ttl {
		b.notice = nil
		return Notice{}, false
	}
	return *b.notice, true
}

// Remaining returns how long the live notice stays visible
func (b *NoticeBoard) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return 0
	}
	left := b.ttl - b.now().Sub(b.notice.Posted)
	if left < 0 {
		return 0
	}
	return left
}
