package notification

import (
	"fmt"

	"github.com/taskhub/taskhub-api/internal/models"
)

// Only assignment and update notifications map to an email template. Every
// other category is a no-op for the email channel.
func emailTemplate(notifType models.NotificationType, userName, title, message string) (subject, body string, ok bool) {
	switch notifType {
	case models.NotificationTypeTaskAssigned:
		return "New Task Assigned", taskAssignedBody(userName, title, message), true
	case models.NotificationTypeTaskUpdated:
		return "Task Update Notification", taskUpdatedBody(userName, title), true
	default:
		return "", "", false
	}
}

func taskAssignedBody(userName, taskTitle, taskDescription string) string {
	if taskDescription == "" {
		taskDescription = "No description provided."
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello %s,</h2>
  <p>You have been assigned a new task in the Task Management System.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0;">%s</h3>
    <p>%s</p>
  </div>
  <p>Please log in to your account to view the details and start working on this task.</p>
  <p>Best regards,<br>Task Management Team</p>
</div>`, userName, taskTitle, taskDescription)
}

func taskUpdatedBody(userName, taskTitle string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello %s,</h2>
  <p>There has been an update to a task you are assigned to:</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0;">%s</h3>
    <p>Update type: Updated</p>
  </div>
  <p>Please log in to your account to view the updated details.</p>
  <p>Best regards,<br>Task Management Team</p>
</div>`, userName, taskTitle)
}
