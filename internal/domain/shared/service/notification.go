package service

import (
	"context"

	"github.com/google/uuid"
)

// NotificationKind selects the outbound channel template
type NotificationKind string

const (
	NotificationInvoiceCorrected     NotificationKind = "invoice_corrected"
	NotificationApprovalRequested    NotificationKind = "approval_requested"
	NotificationApprovalResolved     NotificationKind = "approval_resolved"
	NotificationWalletCredited       NotificationKind = "wallet_credited"
	NotificationLevyInvoiceGenerated NotificationKind = "levy_invoice_generated"
)

// Notification is an outbound message to a resident or reviewer group
type Notification struct {
	Kind        NotificationKind
	RecipientID uuid.UUID // zero value broadcasts to the reviewer group
	Subject     string
	Body        string
	Metadata    map[string]string
}

// Notifier dispatches notifications fire-and-forget relative to the core
// transaction. A dispatch failure is surfaced to callers as a non-fatal
// warning, never as a rollback of the financial mutation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
