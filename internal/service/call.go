package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/repository"
)

// PushSender delivers a call-signal push to a device token.
type PushSender interface {
	SendCallSignal(ctx context.Context, deviceToken, callerName, callerID, targetID string) error
}

// CallService resolves the target's device token and dispatches a call
// signal. The delivery outcome is returned to the HTTP caller synchronously.
type CallService struct {
	repo    repository.UserRepository
	sender  PushSender
	timeout time.Duration
	log     *zap.SugaredLogger
}

func NewCallService(repo repository.UserRepository, sender PushSender, timeout time.Duration, log *zap.SugaredLogger) *CallService {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &CallService{repo: repo, sender: sender, timeout: timeout, log: log}
}

func (s *CallService) PlaceCall(ctx context.Context, callerID, targetID, callerName string) error {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrInvalidUserID) {
			return ErrUserNotFound
		}
		return err
	}

	if target.FcmToken == "" {
		s.log.Warnf("call to %s not placed: no device token", targetID)
		return ErrNoDeviceToken
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.sender.SendCallSignal(sendCtx, target.FcmToken, callerName, callerID, targetID)
}
