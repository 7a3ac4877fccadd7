package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/pkg/clients/telegram"
)

type fakeSender struct {
	messages []string
	err      error
}

func (f *fakeSender) SendMessage(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func trayAddedDaysAgo(days int, eggType models.EggType) models.Tray {
	return models.Tray{
		ID:        "tray-1",
		Door:      models.DoorRight,
		Row:       2,
		Position:  models.PositionLeft,
		EggType:   eggType,
		AddedDate: now.Add(-time.Duration(days) * 24 * time.Hour),
	}
}

func TestComposeAdded(t *testing.T) {
	tray := trayAddedDaysAgo(0, models.EggTypeChicken)

	message := ComposeAdded(tray)

	assert.Contains(t, message, "right door")
	assert.Contains(t, message, "row 2")
	assert.Contains(t, message, "left position")
	assert.Contains(t, message, "chicken")
	assert.Contains(t, message, tray.AddedDate.AddDate(0, 0, 18).Format("January 2, 2006"))
}

func TestComposeRemoved(t *testing.T) {
	message := ComposeRemoved(trayAddedDaysAgo(18, models.EggTypeChicken))

	assert.Contains(t, message, "right door")
	assert.Contains(t, message, "row 2")
	assert.Contains(t, message, "marked as removed")
}

func TestComposeOverdueAlert(t *testing.T) {
	message := ComposeOverdueAlert(trayAddedDaysAgo(19, models.EggTypeChicken), now)

	assert.Contains(t, message, "ALERT")
	assert.Contains(t, message, "<b>right</b>")
	assert.Contains(t, message, "N°2")
	assert.Contains(t, message, "Days in incubator: <b>19</b>")
	assert.Contains(t, message, "18-day incubation period")
}

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name string
		tray models.Tray
		want bool
	}{
		{"chicken at period", trayAddedDaysAgo(18, models.EggTypeChicken), true},
		{"chicken past period", trayAddedDaysAgo(20, models.EggTypeChicken), true},
		{"chicken under period", trayAddedDaysAgo(17, models.EggTypeChicken), false},
		{"duck under period", trayAddedDaysAgo(20, models.EggTypeDuck), false},
		{"duck at period", trayAddedDaysAgo(25, models.EggTypeDuck), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.tray, now))
		})
	}

	removed := trayAddedDaysAgo(20, models.EggTypeChicken)
	removed.Removed = true
	assert.False(t, ShouldNotify(removed, now), "removed trays never notify")

	alreadySent := trayAddedDaysAgo(20, models.EggTypeChicken)
	alreadySent.NotificationSent = true
	assert.False(t, ShouldNotify(alreadySent, now), "notified trays never notify again")
}

func TestDispatch(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, nil)

	require.NoError(t, dispatcher.Dispatch(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, sender.messages)
}

func TestDispatchReturnsSenderError(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	dispatcher := NewDispatcher(sender, nil)

	err := dispatcher.Dispatch(context.Background(), "hello")
	assert.Error(t, err)
}

func TestDispatchWithoutCredentialsFailsCleanly(t *testing.T) {
	client := telegram.NewClient(config.TelegramConfig{BaseURL: "https://api.telegram.org"})
	dispatcher := NewDispatcher(client, nil)

	err := dispatcher.Dispatch(context.Background(), "hello")
	assert.ErrorIs(t, err, telegram.ErrNotConfigured)
}
