package auth

import (
	"context"
	"fmt"
	"io"
)

// Notifier is the outbound delivery channel for one-time codes. It may
// fail independently of the operation that triggered it; callers treat
// delivery failure as non-fatal.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string, string) error { return nil }

// WriterNotifier prints outgoing messages to a writer, standing in for
// a real mail channel during local runs.
type WriterNotifier struct {
	out io.Writer
}

var _ Notifier = (*WriterNotifier)(nil)

func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (n *WriterNotifier) Send(_ context.Context, to, subject, body string) error {
	fmt.Fprintln(n.out, "====== SENDING EMAIL NOTIFICATION =======")
	fmt.Fprintf(n.out, "to: %s\n", to)
	fmt.Fprintf(n.out, "subject: %s\n", subject)
	fmt.Fprintf(n.out, "%s\n", body)
	return nil
}
