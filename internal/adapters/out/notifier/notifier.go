// Package notifier implements ports.Notifier: customer and driver SMS
// notices with one receipt per run and recipient, so repeating a finalize
// never texts anyone twice.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
)

const (
	KindCustomer = "customer"
	KindDriver   = "driver"
)

// ErrNoticeInFlight means another caller holds the claim for the recipient
// and has not finished sending yet.
var ErrNoticeInFlight = errors.New("notice is being sent by another caller")

type Notifier struct {
	sender   Sender
	receipts ports.ReceiptStore
	logger   *slog.Logger
}

func New(sender Sender, receipts ports.ReceiptStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		receipts: receipts,
		logger:   logger.With("component", "notifier"),
	}
}

func (n *Notifier) SendCustomerNotice(
	ctx context.Context,
	o *order.Order,
	window ports.DeliveryWindow,
) (ports.NoticeResult, error) {
	runID := o.RunID()
	if runID == nil {
		return ports.NoticeResult{}, errs.NewValueIsRequiredError("order runId")
	}
	d := o.Details()

	body := fmt.Sprintf("Hi %s, your order will be delivered on %s between %s and %s.",
		greetingName(d.CustomerName), window.Date.String(), window.Start, window.End)

	return n.send(ctx, *runID, KindCustomer, KindCustomer+":"+o.ID().String(), d.CustomerPhone, body)
}

func (n *Notifier) SendDriverNotice(
	ctx context.Context,
	r *run.DeliveryRun,
	driver *fleet.Driver,
) (ports.NoticeResult, error) {
	if driver == nil {
		return ports.NoticeResult{}, errs.NewValueIsRequiredError("driver")
	}

	body := fmt.Sprintf("Run %s on %s is yours: %d stops.",
		r.RunNumber(), r.ScheduledDate().String(), r.OrderCount())
	if d := r.EstimatedDurationMinutes(); d != nil {
		body = fmt.Sprintf("%s Estimated %.0f min.", body, *d)
	}

	return n.send(ctx, r.ID(), KindDriver, KindDriver+":"+driver.ID().String(), driver.Phone(), body)
}

func (n *Notifier) send(
	ctx context.Context,
	runID kernel.UUID,
	kind string,
	recipientKey string,
	phone string,
	body string,
) (ports.NoticeResult, error) {
	if phone == "" {
		metrics.Notifications.WithLabelValues(kind, "failed").Inc()
		return ports.NoticeResult{}, errs.NewValueIsRequiredError(kind + " phone")
	}

	existing, owned, err := n.receipts.Claim(ctx, runID, recipientKey, kind)
	if err != nil {
		return ports.NoticeResult{}, fmt.Errorf("claim receipt: %w", err)
	}
	if !owned {
		if existing.Status == ports.ReceiptSent {
			metrics.Notifications.WithLabelValues(kind, "already_sent").Inc()
			return ports.NoticeResult{Delivered: true, AlreadySent: true, Reference: existing.Reference}, nil
		}
		return ports.NoticeResult{}, ErrNoticeInFlight
	}

	done := metrics.ObserveCall("sms", kind)
	reference, err := n.sender.Send(ctx, Message{
		To:             phone,
		Body:           body,
		IdempotencyKey: runID.String() + ":" + recipientKey,
	})
	done(err)
	if err != nil {
		metrics.Notifications.WithLabelValues(kind, "failed").Inc()
		// Detached so a cancelled call still frees the claim for a retry.
		if releaseErr := n.receipts.Release(context.WithoutCancel(ctx), runID, recipientKey); releaseErr != nil {
			n.logger.ErrorContext(ctx, "release receipt failed", "recipient", recipientKey, "error", releaseErr)
		}
		return ports.NoticeResult{}, errs.NewExternalServiceError("sms gateway", err)
	}

	metrics.Notifications.WithLabelValues(kind, "sent").Inc()
	if err = n.receipts.MarkSent(context.WithoutCancel(ctx), runID, recipientKey, reference); err != nil {
		// The message went out; a stale pending claim is taken over after its TTL.
		n.logger.ErrorContext(ctx, "mark receipt sent failed", "recipient", recipientKey, "error", err)
	}
	return ports.NoticeResult{Delivered: true, Reference: reference}, nil
}

func greetingName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
