package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/tasks"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeTelegram) SendMessage(_ context.Context, p *bot.SendMessageParams) (*tgmodels.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, p)
	return &tgmodels.Message{}, nil
}

type fakePush struct {
	sent []*messaging.Message
}

func (f *fakePush) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "projects/x/messages/1", nil
}

func setup(t *testing.T, masterChat int64, clientToken string) (*DefaultNotificationService, *fakeTelegram, *fakePush) {
	t.Helper()
	users := memrepo.NewUsers()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{ID: "m1", Username: "anna", Email: "a@x.io", FullName: "Anna Smith", Specialization: "barber", TelegramChatID: masterChat}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "c1", Username: "bob", Email: "b@x.io", FullName: "Bob Lee", Specialization: models.SpecializationClient, PushToken: clientToken}))

	tg, push := &fakeTelegram{}, &fakePush{}
	svc, err := NewDefaultNotificationService(users, tg, push)
	require.NoError(t, err)
	return svc, tg, push
}

var payload = tasks.AppointmentPayload{
	AppointmentID: "a1", MasterID: "m1", ClientID: "c1", Date: "2030-06-02", Time: "09:00",
}

func TestAppointmentCreated_NotifiesBothParties(t *testing.T) {
	svc, tg, push := setup(t, 42, "fcm-token")

	require.NoError(t, svc.AppointmentCreated(context.Background(), payload))

	require.Len(t, tg.sent, 1)
	assert.Equal(t, int64(42), tg.sent[0].ChatID)
	assert.Contains(t, tg.sent[0].Text, "2030-06-02 at 09:00")
	assert.Contains(t, tg.sent[0].Text, "@bob")

	require.Len(t, push.sent, 1)
	assert.Equal(t, "fcm-token", push.sent[0].Token)
	assert.Equal(t, "appointment_created", push.sent[0].Data["type"])
}

func TestChannelsSkippedWithoutTargets(t *testing.T) {
	svc, tg, push := setup(t, 0, "")

	require.NoError(t, svc.AppointmentReminder(context.Background(), payload))
	assert.Empty(t, tg.sent)
	assert.Empty(t, push.sent)
}

func TestAppointmentCancelled_NotifiesOtherParty(t *testing.T) {
	byClient := payload
	byClient.CancelledBy = "c1"
	svc, tg, push := setup(t, 42, "fcm-token")
	require.NoError(t, svc.AppointmentCancelled(context.Background(), byClient))
	assert.Len(t, tg.sent, 1)
	assert.Empty(t, push.sent)

	byMaster := payload
	byMaster.CancelledBy = "m1"
	svc, tg, push = setup(t, 42, "fcm-token")
	require.NoError(t, svc.AppointmentCancelled(context.Background(), byMaster))
	assert.Empty(t, tg.sent)
	require.Len(t, push.sent, 1)
	assert.Equal(t, "appointment_cancelled", push.sent[0].Data["type"])
}

func TestReviewCreated(t *testing.T) {
	svc, tg, _ := setup(t, 42, "")

	require.NoError(t, svc.ReviewCreated(context.Background(), tasks.ReviewPayload{MasterID: "m1", Rating: 4, Comment: "Great cut"}))
	require.Len(t, tg.sent, 1)
	assert.Equal(t, "New review: ★★★★☆\nGreat cut", tg.sent[0].Text)
}

func TestSendErrorsAreReturned(t *testing.T) {
	svc, tg, push := setup(t, 42, "fcm-token")
	tg.err = errors.New("telegram down")

	err := svc.AppointmentCreated(context.Background(), payload)
	assert.ErrorIs(t, err, tg.err)
	// The push still goes out.
	assert.Len(t, push.sent, 1)
}

func TestUnknownUser(t *testing.T) {
	svc, _, _ := setup(t, 42, "")
	p := payload
	p.ClientID = "ghost"
	assert.Error(t, svc.AppointmentCreated(context.Background(), p))
}
