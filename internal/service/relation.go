package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/events"
	"github.com/devanshhooda/learn-live-server/internal/models"
	"github.com/devanshhooda/learn-live-server/internal/repository"
)

// RelationService runs the pairwise connection state machine over the three
// relation lists each user document carries. Every transition is two
// sequential writes, one per participant, with no cross-document
// transaction: if the second write fails the service applies one
// compensating update to undo the first, and only a failed compensation
// surfaces ErrPartialWrite.
type RelationService struct {
	repo   repository.UserRepository
	events *events.Publisher
	log    *zap.SugaredLogger
}

func NewRelationService(repo repository.UserRepository, pub *events.Publisher, log *zap.SugaredLogger) *RelationService {
	return &RelationService{repo: repo, events: pub, log: log}
}

// SendRequest transitions the (sender, receiver) pair from none to
// requested: receiver id onto sender.sentRequests, sender id onto
// receiver.receivedRequests. Sender's document is written first.
func (s *RelationService) SendRequest(ctx context.Context, senderID, receiverID string) error {
	if senderID == receiverID {
		return ErrSelfRequest
	}

	sender, receiver, err := s.loadPair(ctx, senderID, receiverID)
	if err != nil {
		return err
	}

	if contains(sender.Connects, receiverID) {
		return ErrAlreadyConnected
	}
	if contains(sender.SentRequests, receiverID) || contains(receiver.ReceivedRequests, senderID) ||
		contains(sender.ReceivedRequests, receiverID) {
		return ErrRequestExists
	}

	err = s.applyPair(ctx,
		senderID, models.RelationUpdate{Push: map[string]string{models.RelationSentRequests: receiverID}},
		receiverID, models.RelationUpdate{Push: map[string]string{models.RelationReceivedRequests: senderID}},
	)
	if err != nil {
		return err
	}

	s.events.Publish(ctx, events.Event{Type: events.TypeConnectionRequested, UserID: senderID, PeerID: receiverID})
	return nil
}

// Respond resolves a pending request. Accepting moves the pair to connected
// on both documents; declining clears the pending entries and leaves
// connects untouched. The responder's document is written first.
func (s *RelationService) Respond(ctx context.Context, responderID, requesterID string, accept bool) error {
	if responderID == requesterID {
		return ErrSelfRequest
	}

	responder, _, err := s.loadPair(ctx, responderID, requesterID)
	if err != nil {
		return err
	}

	if !contains(responder.ReceivedRequests, requesterID) {
		return ErrNoPendingRequest
	}

	responderUpd := models.RelationUpdate{
		Pull: map[string]string{models.RelationReceivedRequests: requesterID},
	}
	requesterUpd := models.RelationUpdate{
		Pull: map[string]string{models.RelationSentRequests: responderID},
	}
	eventType := events.TypeConnectionDeclined
	if accept {
		responderUpd.Push = map[string]string{models.RelationConnects: requesterID}
		requesterUpd.Push = map[string]string{models.RelationConnects: responderID}
		eventType = events.TypeConnectionAccepted
	}

	if err := s.applyPair(ctx, responderID, responderUpd, requesterID, requesterUpd); err != nil {
		return err
	}

	s.events.Publish(ctx, events.Event{Type: eventType, UserID: responderID, PeerID: requesterID})
	return nil
}

// applyPair sequences the two per-document writes of a transition. A
// second-write failure triggers one compensating update on the first
// document; if that also fails the pair is torn and the error carries
// ErrPartialWrite.
func (s *RelationService) applyPair(ctx context.Context, firstID string, firstUpd models.RelationUpdate, secondID string, secondUpd models.RelationUpdate) error {
	if err := s.repo.ApplyRelationUpdate(ctx, firstID, firstUpd); err != nil {
		return fmt.Errorf("relation update for %s failed: %w", firstID, err)
	}

	err := s.repo.ApplyRelationUpdate(ctx, secondID, secondUpd)
	if err == nil {
		return nil
	}

	if undoErr := s.repo.ApplyRelationUpdate(ctx, firstID, firstUpd.Inverse()); undoErr != nil {
		s.log.Errorw("relation pair left inconsistent",
			"first", firstID, "second", secondID, "cause", err, "undo", undoErr)
		return fmt.Errorf("relation update for %s failed after committing %s: %w", secondID, firstID, ErrPartialWrite)
	}

	s.log.Warnw("relation update rolled back", "first", firstID, "second", secondID, "cause", err)
	return fmt.Errorf("relation update for %s failed: %w", secondID, err)
}

func (s *RelationService) loadPair(ctx context.Context, aID, bID string) (*models.User, *models.User, error) {
	a, err := s.repo.FindByID(ctx, aID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	b, err := s.repo.FindByID(ctx, bID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	return a, b, nil
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
