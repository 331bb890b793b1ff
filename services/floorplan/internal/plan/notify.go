package plan

import "time"

// ToastDuration is how long editor notifications are displayed.
const ToastDuration = 1500 * time.Millisecond

const (
	MsgAdded     = "added"
	MsgRemoved   = "removed"
	MsgJoined    = "tables joined"
	MsgSaved     = "saved"
	MsgDiscarded = "changes discarded"
)

// Notifier shows a short, fire-and-forget message to the user.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// Confirmer asks the user to confirm a destructive action and invokes exactly
// one of the callbacks.
type Confirmer interface {
	Confirm(message string, onConfirm, onCancel func())
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, d time.Duration)

func (f NotifierFunc) Notify(message string, d time.Duration) {
	f(message, d)
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, time.Duration) {}

// Notification is a message recorded by NotificationLog.
type Notification struct {
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`
}

// NotificationLog buffers notifications so they can be handed to a client in
// a response.
type NotificationLog struct {
	items []Notification
}

func (l *NotificationLog) Notify(message string, d time.Duration) {
	l.items = append(l.items, Notification{Message: message, DurationMS: d.Milliseconds()})
}

// Drain returns the buffered notifications and empties the log.
func (l *NotificationLog) Drain() []Notification {
	out := l.items
	l.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// StaticConfirmer answers every prompt the same way.
type StaticConfirmer bool

func (c StaticConfirmer) Confirm(_ string, onConfirm, onCancel func()) {
	if c {
		if onConfirm != nil {
			onConfirm()
		}
		return
	}
	if onCancel != nil {
		onCancel()
	}
}
