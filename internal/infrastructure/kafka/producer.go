// Package kafka publica los eventos de resolución de requisiciones.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/segmentio/kafka-go"
)

var _ ports.EventPublisher = (*Producer)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implementa ports.EventPublisher sobre un kafka.Writer.
type Producer struct {
	writer messageWriter
}

// NewProducer crea el productor para el tópico indicado.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer}
}

// PublishResolution serializa el evento en JSON. La clave es el paquete (o la
// requisición individual) para que los eventos de un mismo paquete conserven su orden.
func (p *Producer) PublishResolution(ctx context.Context, ev ports.ResolutionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventKey(ev)),
		Value: data,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("requisition.resolved")},
		},
	}); err != nil {
		return fmt.Errorf("kafka: publicar resolución: %w", err)
	}
	return nil
}

// Close libera el writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

func eventKey(ev ports.ResolutionEvent) string {
	if ev.PackageID != "" {
		return ev.PackageID
	}
	if len(ev.RequisitionIDs) > 0 {
		return ev.RequisitionIDs[0]
	}
	return ""
}
