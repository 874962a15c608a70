package notification

import (
	"strings"
	"testing"

	"github.com/taskhub/taskhub-api/internal/models"
)

func TestEmailTemplateMapping(t *testing.T) {
	subject, body, ok := emailTemplate(models.NotificationTypeTaskAssigned, "Alice", "New Task", "Do the thing")
	if !ok {
		t.Fatal("expected a template for TASK_ASSIGNED")
	}
	if subject != "New Task Assigned" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Hello Alice,") || !strings.Contains(body, "New Task") || !strings.Contains(body, "Do the thing") {
		t.Fatalf("body missing expected fields: %s", body)
	}

	subject, body, ok = emailTemplate(models.NotificationTypeTaskUpdated, "Alice", "Old Task", "ignored")
	if !ok {
		t.Fatal("expected a template for TASK_UPDATED")
	}
	if subject != "Task Update Notification" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Old Task") {
		t.Fatalf("body missing task title: %s", body)
	}
}

func TestEmailTemplateUnmappedCategories(t *testing.T) {
	for _, notifType := range []models.NotificationType{
		models.NotificationTypeCommentAdded,
		models.NotificationTypeSystem,
	} {
		if _, _, ok := emailTemplate(notifType, "Alice", "t", "m"); ok {
			t.Fatalf("expected no template for %s", notifType)
		}
	}
}

func TestTaskAssignedBodyDefaultsDescription(t *testing.T) {
	body := taskAssignedBody("Alice", "New Task", "")
	if !strings.Contains(body, "No description provided.") {
		t.Fatalf("expected default description, got: %s", body)
	}
}
