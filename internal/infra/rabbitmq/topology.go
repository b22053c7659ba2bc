package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange de eventos do pipeline (topic, durável)
	ExchangeName = "settleflow_events"
	// Fila de jobs de liquidação (durável, sobrevive a restart do broker)
	QueueName = "transaction_jobs"
	// Routing key usada pela ingestão
	RoutingKeySubmitted = "transaction.submitted"
)

// DeclareTopology garante exchange, fila e bind (tudo idempotente).
// Tanto a API quanto o worker chamam isso no startup, então a ordem de boot
// dos processos não importa.
func DeclareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return err
	}

	q, err := ch.QueueDeclare(
		QueueName, // name
		true,      // durable (sobrevive a restart do server)
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(
		q.Name,              // queue name
		RoutingKeySubmitted, // routing key
		ExchangeName,        // exchange
		false,
		nil,
	)
}
