package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	KindNone       = "none"
	KindNotifySend = "notify-send"
	KindZenity     = "zenity"

	sendTimeout = 5 * time.Second
)

// Notifier raises a desktop notification for an imminent meeting.
type Notifier interface {
	Send(ctx context.Context, summary, message string) error
}

// runner executes an external command; swapped out in tests.
type runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// New returns the notifier for kind ("none", "notify-send" or "zenity").
func New(kind, icon string) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindNone:
		return Nop{}, nil
	case KindNotifySend:
		return &NotifySend{icon: icon, run: execRunner}, nil
	case KindZenity:
		return &Zenity{run: execRunner}, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

type Nop struct{}

func (Nop) Send(context.Context, string, string) error { return nil }

type NotifySend struct {
	icon string
	run  runner
}

func (s *NotifySend) Send(ctx context.Context, summary, message string) error {
	args := []string{"--urgency=critical", "--app-name=meetcal"}
	if s.icon != "" {
		args = append(args, "-i", s.icon)
	}
	args = append(args, summary, message)
	return s.run(ctx, "notify-send", args...)
}

type Zenity struct {
	run runner
}

func (z *Zenity) Send(ctx context.Context, summary, message string) error {
	text := fmt.Sprintf("<span size=\"large\">%s</span>\n<span>%s</span>",
		escapeMarkup(summary), escapeMarkup(message))
	return z.run(ctx, "zenity", "--info", "--icon-name", "appointment-soon", "--title", "Meeting", "--text", text)
}

var markupReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeMarkup(s string) string {
	return markupReplacer.Replace(s)
}
