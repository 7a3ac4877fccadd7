// Package notify composes tray notification messages and hands them to the
// Telegram client. Dispatch is best-effort throughout: failures are logged at
// this boundary and never propagate into the state change that caused them.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/status"
	"github.com/mamadbah2/hatchery/pkg/clients/telegram"
)

const dateLayout = "January 2, 2006"

// Dispatcher composes and sends tray notifications.
type Dispatcher struct {
	client telegram.Client
	logger *zap.Logger
}

// NewDispatcher wires a dispatcher around the messaging client.
func NewDispatcher(client telegram.Client, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{client: client, logger: logger}
}

// ComposeAdded builds the confirmation sent when a tray is placed.
func ComposeAdded(tray models.Tray) string {
	removalDate := status.CompletionDate(tray.AddedDate, tray.EggType).Format(dateLayout)
	return fmt.Sprintf("New %s tray added to %s door, row %d, %s position on %s. Remember to remove it on %s!",
		tray.EggType, tray.Door, tray.Row, tray.Position, tray.AddedDate.Format(dateLayout), removalDate)
}

// ComposeRemoved builds the confirmation sent when a tray is taken out.
func ComposeRemoved(tray models.Tray) string {
	return fmt.Sprintf("Tray from %s door, row %d, %s position has been marked as removed.",
		tray.Door, tray.Row, tray.Position)
}

// ComposeOverdueAlert builds the sweep alert for a tray past its incubation
// period.
func ComposeOverdueAlert(tray models.Tray, now time.Time) string {
	days := status.DaysInIncubator(tray.AddedDate, now)
	period := status.IncubationPeriod(tray.EggType)

	return fmt.Sprintf("🚨 <b>ALERT: Tray ready to be removed</b> 🚨\n\n"+
		"Door: <b>%s</b>\n"+
		"Tray: <b>N°%d</b>\n"+
		"Position: <b>%s</b>\n"+
		"Added on: <b>%s</b>\n"+
		"Days in incubator: <b>%d</b>\n\n"+
		"This tray has reached or passed the %d-day incubation period and is ready to be removed.",
		tray.Door, tray.Row, tray.Position, tray.AddedDate.Format(dateLayout), days, period)
}

// ShouldNotify reports whether the sweep owes the tray an overdue alert.
func ShouldNotify(tray models.Tray, now time.Time) bool {
	if tray.Removed || tray.NotificationSent {
		return false
	}
	return status.DaysInIncubator(tray.AddedDate, now) >= status.IncubationPeriod(tray.EggType)
}

// Dispatch hands the message to the messaging client. The error return lets
// callers decide whether to record the failure; it must never fail the state
// change that triggered the message.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := d.client.SendMessage(ctxWithTimeout, message); err != nil {
		d.logger.Warn("notification dispatch failed", zap.Error(err))
		return err
	}

	d.logger.Info("notification dispatched")
	return nil
}
