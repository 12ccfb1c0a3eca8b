package jobs

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/requests"
)

const digestTimeout = 2 * time.Minute

// SendPendingDigest emails the admins a summary of the pending queue. Nothing is sent
// when the queue is empty or no recipients are configured.
func (jr *JobRunner) SendPendingDigest() {
	jr.runWithRecovery("SendPendingDigest", func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()

		if err := jr.sendPendingDigest(ctx); err != nil {
			logger.Error("Failed to send pending digest", "error", err)
		}
	})
}

func (jr *JobRunner) sendPendingDigest(ctx context.Context) error {
	recipients := jr.config.Mail.DigestTo
	if len(recipients) == 0 {
		logger.Info("No digest recipients configured, skipping")
		return nil
	}

	// Always read the backend's current state, not a cached copy.
	if err := jr.services.Requests.Refresh(ctx); err != nil {
		logger.Warn("Failed to refresh collections before digest", "error", err)
	}

	model, err := jr.services.Requests.Model(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to build request view: %w", err)
	}
	if model.Stats.TotalRequests == 0 {
		logger.Info("No pending requests, digest not sent")
		return nil
	}

	subject, plain, htmlBody := renderDigest(model)
	if err := jr.services.Mailer.Send(ctx, recipients, subject, plain, htmlBody); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	logger.Info("Pending digest sent", "recipients", len(recipients), "total", model.Stats.TotalRequests)
	return nil
}

func renderDigest(model *requests.Model) (subject, plain, htmlBody string) {
	stats := model.Stats
	subject = fmt.Sprintf("Solicitações pendentes: %d", stats.TotalRequests)

	var p, h strings.Builder
	fmt.Fprintf(&p, "Total de solicitações: %d\n", stats.TotalRequests)
	fmt.Fprintf(&p, "Cadastros pendentes: %d\n", stats.PendingRegistrations)
	fmt.Fprintf(&p, "Mudanças de plano: %d\n", stats.PendingPlanChanges)
	fmt.Fprintf(&p, "Novas (24h): %d\n\n", stats.NewRequests)

	h.WriteString("<h2>Solicitações pendentes</h2><ul>")
	fmt.Fprintf(&h, "<li>Total de solicitações: %d</li>", stats.TotalRequests)
	fmt.Fprintf(&h, "<li>Cadastros pendentes: %d</li>", stats.PendingRegistrations)
	fmt.Fprintf(&h, "<li>Mudanças de plano: %d</li>", stats.PendingPlanChanges)
	fmt.Fprintf(&h, "<li>Novas (24h): %d</li></ul><table>", stats.NewRequests)

	for _, row := range model.Rows {
		fmt.Fprintf(&p, "- [%s] %s <%s> %s\n", row.RequestType, row.Name, row.Email, row.DisplayDate)
		fmt.Fprintf(&h, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(string(row.RequestType)),
			html.EscapeString(row.Name),
			html.EscapeString(row.Email),
			html.EscapeString(row.DisplayDate))
	}
	h.WriteString("</table>")

	return subject, p.String(), h.String()
}
