package notify

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("push notifications are not configured")

const callSignalTitle = "Incoming call"

// Client delivers call-signal pushes through Firebase Cloud Messaging.
type Client struct {
	msg *messaging.Client
	log *zap.SugaredLogger
}

// NewClient initializes the FCM messaging client from a credentials file.
// An empty path yields an unconfigured client whose sends fail with
// ErrNotConfigured.
func NewClient(ctx context.Context, credentialsPath string, log *zap.SugaredLogger) (*Client, error) {
	if credentialsPath == "" {
		return &Client{log: log}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	msg, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Messaging client: %w", err)
	}
	return &Client{msg: msg, log: log}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.msg != nil
}

// SendCallSignal pushes a call notification to the given device token. The
// caller and target ids ride as data fields for client-side routing.
func (c *Client) SendCallSignal(ctx context.Context, deviceToken, callerName, callerID, targetID string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	m := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: callSignalTitle,
			Body:  callerName,
		},
		Data: map[string]string{
			"callerId":   callerID,
			"receiverId": targetID,
			"callerName": callerName,
		},
	}

	id, err := c.msg.Send(ctx, m)
	if err != nil {
		c.log.Warnf("call signal to %s failed: %v", targetID, err)
		return fmt.Errorf("call signal delivery failed: %w", err)
	}
	c.log.Infof("call signal delivered: %s", id)
	return nil
}
