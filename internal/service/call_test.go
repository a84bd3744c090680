package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/models"
)

type fakeSender struct {
	err   error
	calls []sentSignal
}

type sentSignal struct {
	deviceToken string
	callerName  string
	callerID    string
	targetID    string
}

func (f *fakeSender) SendCallSignal(_ context.Context, deviceToken, callerName, callerID, targetID string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, sentSignal{deviceToken, callerName, callerID, targetID})
	return nil
}

func TestPlaceCall_DeliversSignal(t *testing.T) {
	repo := newFakeRepo()
	callerID := repo.addUser(models.User{PhoneNumber: "+15551230001", Name: "alice"})
	targetID := repo.addUser(models.User{PhoneNumber: "+15551230002", FcmToken: "device-42"})
	sender := &fakeSender{}
	svc := NewCallService(repo, sender, 0, zap.NewNop().Sugar())

	require.NoError(t, svc.PlaceCall(context.Background(), callerID, targetID, "Alice"))

	require.Len(t, sender.calls, 1)
	sent := sender.calls[0]
	assert.Equal(t, "device-42", sent.deviceToken)
	assert.Equal(t, "Alice", sent.callerName)
	assert.Equal(t, callerID, sent.callerID)
	assert.Equal(t, targetID, sent.targetID)
}

func TestPlaceCall_NoDeviceToken(t *testing.T) {
	repo := newFakeRepo()
	callerID := repo.addUser(models.User{PhoneNumber: "+15551230001"})
	targetID := repo.addUser(models.User{PhoneNumber: "+15551230002"})
	sender := &fakeSender{}
	svc := NewCallService(repo, sender, 0, zap.NewNop().Sugar())

	err := svc.PlaceCall(context.Background(), callerID, targetID, "Alice")
	assert.ErrorIs(t, err, ErrNoDeviceToken)
	assert.Empty(t, sender.calls, "no push is sent when the lookup fails")
}

func TestPlaceCall_UnknownTarget(t *testing.T) {
	repo := newFakeRepo()
	callerID := repo.addUser(models.User{PhoneNumber: "+15551230001"})
	sender := &fakeSender{}
	svc := NewCallService(repo, sender, 0, zap.NewNop().Sugar())

	err := svc.PlaceCall(context.Background(), callerID, "ffffffffffffffffffffffff", "Alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, sender.calls)
}

func TestPlaceCall_DeliveryFailureSurfaces(t *testing.T) {
	repo := newFakeRepo()
	callerID := repo.addUser(models.User{PhoneNumber: "+15551230001"})
	targetID := repo.addUser(models.User{PhoneNumber: "+15551230002", FcmToken: "device-42"})
	deliveryErr := errors.New("fcm unavailable")
	sender := &fakeSender{err: deliveryErr}
	svc := NewCallService(repo, sender, 0, zap.NewNop().Sugar())

	err := svc.PlaceCall(context.Background(), callerID, targetID, "Alice")
	assert.ErrorIs(t, err, deliveryErr)
}
