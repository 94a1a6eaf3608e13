package notification

import (
	"context"
	"fmt"

	"slotbook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// PushSender is the part of *messaging.Client used for notifications.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

func sendPush(ctx context.Context, push PushSender, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "appointments",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := push.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("Push sent", zap.String("messageID", id))
	return nil
}
