package utils

import (
	"context"
	"fmt"

	"slotbook/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseInit builds the Cloud Messaging client. It returns nil when no
// credentials file is configured.
func FirebaseInit(ctx context.Context) (*messaging.Client, error) {
	path := config.AppConfig.FirebaseCredentialsFile
	if path == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}
