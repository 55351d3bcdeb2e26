package services

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/database/repositories/mock"
	"github.com/preyforum/preyforum/preyforum/progression"
)

func TestNotifier_WritesNotificationRow(t *testing.T) {
	ctrl := gomock.NewController(t)

	var captured *models.Notification
	notifications := mock.NewMockNotificationRepository(ctrl)
	notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, n *models.Notification) error {
			captured = n
			return nil
		})

	n := NewRoleChangeNotifier(notifications)
	n.deliver(progression.RoleChanged{
		UserID:    "uid-1",
		FromRole:  progression.RoleNewUser,
		ToRole:    progression.RoleUser,
		Balance:   205,
		Timestamp: time.Now().UnixMilli(),
	})

	if captured == nil {
		t.Fatal("no notification written")
	}
	if captured.UserID != "uid-1" {
		t.Errorf("UserID = %q, want uid-1", captured.UserID)
	}
	if captured.Kind != models.NotificationKindRoleChanged {
		t.Errorf("Kind = %q, want %q", captured.Kind, models.NotificationKindRoleChanged)
	}
	if len(captured.Payload) == 0 {
		t.Error("Payload is empty")
	}
}

func TestNotifier_NonBlocking(t *testing.T) {
	ctrl := gomock.NewController(t)

	done := make(chan struct{})
	notifications := mock.NewMockNotificationRepository(ctrl)
	notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ *models.Notification) error {
			close(done)
			return nil
		})

	n := NewRoleChangeNotifier(notifications)

	start := time.Now()
	n.RoleChanged(progression.RoleChanged{UserID: "uid-2", ToRole: progression.RoleUser})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("RoleChanged blocked for %v", elapsed)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notification was never delivered")
	}
}
