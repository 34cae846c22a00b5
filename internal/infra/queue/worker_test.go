package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFollowUpSender struct {
	calls []string
	err   error
}

func (f *fakeFollowUpSender) SendConversionFollowUp(phone, name, templateID string) error {
	f.calls = append(f.calls, phone)
	return f.err
}

type fakeWelcomeMailer struct {
	calls []string
	err   error
}

func (f *fakeWelcomeMailer) SendClientWelcome(to, name, managerName string) error {
	f.calls = append(f.calls, to)
	return f.err
}

func convertedPayload(score int) LeadConvertedPayload {
	return LeadConvertedPayload{
		LeadID:        "lead-1",
		ClientID:      "client-1",
		OpportunityID: "opp-1",
		ClientName:    "Ana Silva",
		ClientPhone:   "912345678",
		ClientEmail:   "ana@myimomate.pt",
		ManagerName:   "Carlos Mendes",
		QualityScore:  score,
		ConvertedBy:   "user-1",
	}
}

func TestWorkerSendsFollowUpAndWelcome(t *testing.T) {
	whatsapp := &fakeFollowUpSender{}
	mailer := &fakeWelcomeMailer{}
	w := &Worker{WhatsApp: whatsapp, Mailer: mailer}

	err := w.processMessage(context.Background(), convertedPayload(85))

	assert.NoError(t, err)
	assert.Equal(t, []string{"912345678"}, whatsapp.calls)
	assert.Equal(t, []string{"ana@myimomate.pt"}, mailer.calls)
}

// Score baixo: só o email sai; o WhatsApp fica para o consultor.
func TestWorkerLowScoreSkipsWhatsApp(t *testing.T) {
	whatsapp := &fakeFollowUpSender{}
	mailer := &fakeWelcomeMailer{}
	w := &Worker{WhatsApp: whatsapp, Mailer: mailer}

	err := w.processMessage(context.Background(), convertedPayload(followUpScoreThreshold-1))

	assert.NoError(t, err)
	assert.Empty(t, whatsapp.calls)
	assert.Equal(t, []string{"ana@myimomate.pt"}, mailer.calls)
}

// Falha no WhatsApp devolve a mensagem (nack para DLQ).
func TestWorkerWhatsAppFailurePropagates(t *testing.T) {
	whatsapp := &fakeFollowUpSender{err: errors.New("api timeout")}
	w := &Worker{WhatsApp: whatsapp, Mailer: &fakeWelcomeMailer{}}

	err := w.processMessage(context.Background(), convertedPayload(85))

	assert.Error(t, err)
}

// Email é best-effort: falha não devolve a mensagem.
func TestWorkerEmailFailureDoesNotPropagate(t *testing.T) {
	mailer := &fakeWelcomeMailer{err: errors.New("smtp down")}
	w := &Worker{WhatsApp: &fakeFollowUpSender{}, Mailer: mailer}

	err := w.processMessage(context.Background(), convertedPayload(85))

	assert.NoError(t, err)
}

func TestWorkerSkipsMissingContactChannels(t *testing.T) {
	whatsapp := &fakeFollowUpSender{}
	mailer := &fakeWelcomeMailer{}
	w := &Worker{WhatsApp: whatsapp, Mailer: mailer}

	payload := convertedPayload(85)
	payload.ClientPhone = ""
	payload.ClientEmail = ""

	err := w.processMessage(context.Background(), payload)

	assert.NoError(t, err)
	assert.Empty(t, whatsapp.calls)
	assert.Empty(t, mailer.calls)
}
