package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"canna-backoffice-requests/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printNotifier shows notifications on the terminal as they are delivered.
type printNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printNotifier) Notify(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	marker := "*"
	if n.Variant == domain.NotificationDestructive {
		marker = "!"
	}
	_, err := fmt.Fprintf(p.out, "%s %s: %s\n", marker, n.Title, n.Message)
	return err
}
