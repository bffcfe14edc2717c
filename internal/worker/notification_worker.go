package worker

import (
	"github.com/spec-kit/maml-online/internal/service"
)

// StartNotificationWorker subscribes the registration feed handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
