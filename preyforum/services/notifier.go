package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/webhook"
	"github.com/disgoorg/snowflake/v2"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/database/repositories"
	"github.com/preyforum/preyforum/preyforum/progression"
)

const notifierTimeout = 10 * time.Second

// RoleChangeNotifier fans RoleChanged events out to the in-app notification
// feed and, when configured, a Discord webhook for the ops channel. Delivery
// is fire-and-forget: the publishing goroutine never blocks the engine.
type RoleChangeNotifier struct {
	notifications repositories.NotificationRepository
	webhookClient webhook.Client
}

func NewRoleChangeNotifier(notifications repositories.NotificationRepository) *RoleChangeNotifier {
	return &RoleChangeNotifier{notifications: notifications}
}

// WithDiscordWebhook attaches the ops-channel webhook sink.
func (n *RoleChangeNotifier) WithDiscordWebhook(id snowflake.ID, token string) *RoleChangeNotifier {
	if id != 0 && token != "" {
		n.webhookClient = webhook.New(id, token)
	}
	return n
}

// RoleChanged implements progression.EventSink.
func (n *RoleChangeNotifier) RoleChanged(event progression.RoleChanged) {
	go n.deliver(event)
}

func (n *RoleChangeNotifier) deliver(event progression.RoleChanged) {
	ctx, cancel := context.WithTimeout(context.Background(), notifierTimeout)
	defer cancel()

	if n.notifications != nil {
		payload, _ := json.Marshal(event)
		err := n.notifications.Create(ctx, &models.Notification{
			UserID:  event.UserID,
			Kind:    models.NotificationKindRoleChanged,
			Title:   fmt.Sprintf("You are now a %s!", event.ToRole),
			Body:    fmt.Sprintf("Your balance of %d Preycoin unlocked the %s role.", event.Balance, event.ToRole),
			Payload: payload,
		})
		if err != nil {
			slog.Error("Failed to store role change notification",
				slog.String("type", "error"),
				slog.String("user_id", event.UserID),
				slog.Any("error", err))
		}
	}

	if n.webhookClient != nil {
		message := fmt.Sprintf("[ROLE] User %s promoted %s -> %s at %d Preycoin",
			event.UserID, event.FromRole, event.ToRole, event.Balance)
		_, err := n.webhookClient.CreateMessage(
			discord.NewWebhookMessageCreateBuilder().SetContent(message).Build(),
		)
		if err != nil {
			slog.Error("Failed to deliver role change webhook",
				slog.String("type", "error"),
				slog.String("user_id", event.UserID),
				slog.Any("error", err))
		}
	}

	slog.Info("Role change delivered",
		slog.String("type", "progression"),
		slog.String("user_id", event.UserID),
		slog.String("from", string(event.FromRole)),
		slog.String("to", string(event.ToRole)))
}
