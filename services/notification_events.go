package services

import (
	"context"
	"fmt"

	"github.com/akinalp/relay/models"
)

// Bildirim metinleri ve alanları tek yerde üretilir; moderasyon ve sosyal olaylar
// aynı NotifyInput kalıbını kullanır.

func relatedKind(k models.RelatedKind) *models.RelatedKind { return &k }
func strPtr(s string) *string                              { return &s }

func friendRequestSentInput(from, to, requestID string) models.NotifyInput {
	return models.NotifyInput{
		Recipient:   models.SingleIdentity(to),
		Sender:      strPtr(from),
		Message:     fmt.Sprintf("You have a friend request from %s.", from),
		Type:        models.NotificationFriendRequest,
		RelatedID:   strPtr(requestID),
		RelatedKind: relatedKind(models.RelatedFriendRequests),
	}
}

func friendRequestAnsweredInput(by, requester, requestID string, accepted bool) models.NotifyInput {
	in := models.NotifyInput{
		Recipient:   models.SingleIdentity(requester),
		Sender:      strPtr(by),
		RelatedID:   strPtr(requestID),
		RelatedKind: relatedKind(models.RelatedFriendRequests),
	}
	if accepted {
		in.Type = models.NotificationFriendAccept
		in.Message = fmt.Sprintf("%s accepted your friend request.", by)
	} else {
		in.Type = models.NotificationFriendReject
		in.Message = fmt.Sprintf("%s declined your friend request.", by)
	}
	return in
}

func addedToGroupInput(by, member, conversationID, groupName string) models.NotifyInput {
	return models.NotifyInput{
		Recipient:   models.SingleIdentity(member),
		Sender:      strPtr(by),
		Message:     fmt.Sprintf("You were added to the group %q by %s.", groupName, by),
		Type:        models.NotificationMessage,
		RelatedID:   strPtr(conversationID),
		RelatedKind: relatedKind(models.RelatedConversations),
	}
}

func reportFiledInput(r *models.Report) models.NotifyInput {
	msg := fmt.Sprintf("New %s report from %s.", r.Kind, r.Reporter)
	if r.TargetID != nil {
		msg = fmt.Sprintf("New %s report from %s against %s.", r.Kind, r.Reporter, *r.TargetID)
	}
	return models.NotifyInput{
		Recipient:   models.AllAdmins(),
		Sender:      strPtr(r.Reporter),
		Message:     msg,
		Type:        models.NotificationReport,
		RelatedID:   strPtr(r.ID),
		RelatedKind: relatedKind(models.RelatedReports),
	}
}

func reportResolvedInput(reporter, reportID string, actioned bool) models.NotifyInput {
	msg := "Your report has been reviewed and resolved."
	if actioned {
		msg = "Your report has been reviewed and action was taken."
	}
	return models.NotifyInput{
		Recipient:   models.SingleIdentity(reporter),
		Message:     msg,
		Type:        models.NotificationReport,
		RelatedID:   strPtr(reportID),
		RelatedKind: relatedKind(models.RelatedReports),
	}
}

// warningIssuedInput, süre 0 ise yaptırımsız uyarı, değilse süreli ban metni üretir.
func warningIssuedInput(recipient string, w *models.Warning) models.NotifyInput {
	var msg string
	switch {
	case w.TargetKind == models.TargetGroup && w.BanDuration == 0:
		msg = fmt.Sprintf("Your group %s received a warning: %s", w.TargetID, w.Reason)
	case w.TargetKind == models.TargetGroup:
		msg = fmt.Sprintf("Your group %s has been banned for %d minutes: %s", w.TargetID, w.BanDuration, w.Reason)
	case w.BanDuration == 0:
		msg = fmt.Sprintf("You received a warning: %s", w.Reason)
	default:
		msg = fmt.Sprintf("You have been banned for %d minutes: %s", w.BanDuration, w.Reason)
	}

	return models.NotifyInput{
		Recipient:   models.SingleIdentity(recipient),
		Message:     msg,
		Type:        models.NotificationWarning,
		RelatedID:   strPtr(w.ID),
		RelatedKind: relatedKind(models.RelatedWarnings),
	}
}

func banLiftedInput(recipient string, kind models.TargetKind, targetID string) models.NotifyInput {
	msg := "Your ban has been lifted."
	if kind == models.TargetGroup {
		msg = fmt.Sprintf("The ban on your group %s has been lifted.", targetID)
	}
	return models.NotifyInput{
		Recipient: models.SingleIdentity(recipient),
		Message:   msg,
		Type:      models.NotificationSystem,
	}
}

// EventService, dış CRUD katmanının sosyal olaylarını bildirime çevirir.
//
// Arkadaşlık isteği ve grup üyeliği kayıtları o katmandadır; burada yalnızca
// olay gerçekleştikten sonra bildirim üretilir.
type EventService interface {
	FriendRequestSent(ctx context.Context, from, to, requestID string) error
	FriendRequestAccepted(ctx context.Context, by, requester, requestID string) error
	FriendRequestRejected(ctx context.Context, by, requester, requestID string) error
	AddedToGroup(ctx context.Context, by, member, conversationID, groupName string) error
}

type eventService struct {
	notifications NotificationService
}

// NewEventService, constructor.
func NewEventService(notifications NotificationService) EventService {
	return &eventService{notifications: notifications}
}

func (s *eventService) FriendRequestSent(ctx context.Context, from, to, requestID string) error {
	_, err := s.notifications.Notify(ctx, friendRequestSentInput(from, to, requestID))
	return err
}

func (s *eventService) FriendRequestAccepted(ctx context.Context, by, requester, requestID string) error {
	_, err := s.notifications.Notify(ctx, friendRequestAnsweredInput(by, requester, requestID, true))
	return err
}

func (s *eventService) FriendRequestRejected(ctx context.Context, by, requester, requestID string) error {
	_, err := s.notifications.Notify(ctx, friendRequestAnsweredInput(by, requester, requestID, false))
	return err
}

func (s *eventService) AddedToGroup(ctx context.Context, by, member, conversationID, groupName string) error {
	_, err := s.notifications.Notify(ctx, addedToGroupInput(by, member, conversationID, groupName))
	return err
}
