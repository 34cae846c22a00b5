package queue

import (
	"context"
	"encoding/json"
	"log"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FollowUpSender é o contrato das automações pós-conversão (WhatsApp,
// email). O worker não conhece os clientes concretos.
type FollowUpSender interface {
	SendConversionFollowUp(phone, name, templateID string) error
}

type WelcomeMailer interface {
	SendClientWelcome(to, name, managerName string) error
}

// Worker consome eventos lead.converted e dispara as automações de
// boas-vindas. Desacoplado do banco: tudo o que precisa vem no payload.
type Worker struct {
	Channel  *amqp.Channel
	WhatsApp FollowUpSender
	Mailer   WelcomeMailer
}

func NewWorker(ch *amqp.Channel, whatsapp FollowUpSender, mailer WelcomeMailer) *Worker {
	return &Worker{
		Channel:  ch,
		WhatsApp: whatsapp,
		Mailer:   mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadConvertedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem malformada vai direto para a DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Automação pós-conversão para: %s (lead %s)", payload.ClientName, payload.LeadID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro na automação: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Follow-up enviado para %s", payload.ClientName)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

// Conversões com score abaixo disto ficam só com o email; o WhatsApp
// é reservado para leads com dados suficientes para o consultor agir.
const followUpScoreThreshold = 40

func (w *Worker) processMessage(ctx context.Context, payload LeadConvertedPayload) error {
	if w.WhatsApp != nil && payload.ClientPhone != "" {
		if payload.QualityScore < followUpScoreThreshold {
			log.Printf("ℹ️ [WORKER] Score %d abaixo de %d, follow-up WhatsApp adiado para %s",
				payload.QualityScore, followUpScoreThreshold, payload.ClientName)
		} else {
			templateID := os.Getenv("WHATSAPP_TEMPLATE_ID")
			if err := w.WhatsApp.SendConversionFollowUp(payload.ClientPhone, payload.ClientName, templateID); err != nil {
				return err
			}
		}
	}

	if w.Mailer != nil && payload.ClientEmail != "" {
		// Email é best-effort: falha não devolve a mensagem à fila.
		if err := w.Mailer.SendClientWelcome(payload.ClientEmail, payload.ClientName, payload.ManagerName); err != nil {
			log.Printf("⚠️ [WORKER] Email de boas-vindas falhou para %s: %v", payload.ClientEmail, err)
		}
	}

	return nil
}
