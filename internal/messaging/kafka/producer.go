package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

const (
	defaultClientID   = "storefront"
	defaultRetryMax   = 5
	defaultRetryDelay = 100 * time.Millisecond
)

// ProducerOption настраивает Producer.
type ProducerOption func(*producerSettings)

type producerSettings struct {
	clientID   string
	retryMax   int
	retryDelay time.Duration
	logger     *log.Entry
	now        func() time.Time
}

// WithClientID задаёт client.id, под которым producer виден брокерам.
func WithClientID(id string) ProducerOption {
	return func(s *producerSettings) {
		if id = strings.TrimSpace(id); id != "" {
			s.clientID = id
		}
	}
}

// WithRetry задаёт число повторов отправки внутри sarama и паузу между ними.
func WithRetry(max int, backoff time.Duration) ProducerOption {
	return func(s *producerSettings) {
		if max >= 0 {
			s.retryMax = max
		}
		if backoff > 0 {
			s.retryDelay = backoff
		}
	}
}

// WithProducerLogger подменяет логгер producer.
func WithProducerLogger(logger *log.Entry) ProducerOption {
	return func(s *producerSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProducerClock подменяет время, которым помечаются записи.
func WithProducerClock(now func() time.Time) ProducerOption {
	return func(s *producerSettings) {
		if now != nil {
			s.now = now
		}
	}
}

func newProducerSettings(options []ProducerOption) producerSettings {
	settings := producerSettings{
		clientID:   defaultClientID,
		retryMax:   defaultRetryMax,
		retryDelay: defaultRetryDelay,
		logger:     log.WithField("component", "kafka-producer"),
		now:        time.Now,
	}
	for _, option := range options {
		option(&settings)
	}
	return settings
}

// saramaConfig собирает конфигурацию идемпотентного sync producer.
func (s producerSettings) saramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = s.clientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Producer.Retry.Max = s.retryMax
	config.Producer.Retry.Backoff = s.retryDelay
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	// Идемпотентность в sarama требует одного запроса в полёте.
	config.Net.MaxOpenRequests = 1
	return config
}

// Producer публикует события заказов в Kafka.
type Producer struct {
	client sarama.SyncProducer
	logger *log.Entry
	now    func() time.Time
}

// ParseBrokers разбирает список брокеров вида "host1:9092,host2:9092".
func ParseBrokers(raw string) []string {
	brokers := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return slices.DeleteFunc(brokers, func(b string) bool { return b == "" })
}

// NewProducer подключается к брокерам.
func NewProducer(brokers []string, options ...ProducerOption) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	settings := newProducerSettings(options)
	client, err := sarama.NewSyncProducer(brokers, settings.saramaConfig())
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer to %v: %w", brokers, err)
	}
	return &Producer{client: client, logger: settings.logger, now: settings.now}, nil
}

// NewProducerWithClient оборачивает готовый sarama.SyncProducer (например, mocks.SyncProducer).
func NewProducerWithClient(client sarama.SyncProducer, logger *log.Entry, options ...ProducerOption) *Producer {
	if logger != nil {
		options = append(options, WithProducerLogger(logger))
	}
	settings := newProducerSettings(options)
	return &Producer{client: client, logger: settings.logger, now: settings.now}
}

// PublishEvent сериализует событие в JSON и публикует его с ключом партиционирования.
func (p *Producer) PublishEvent(topic, key string, event any, headers map[string]string) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", topic, err)
	}

	partition, offset, err := p.client.SendMessage(&sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(value),
		Headers:   recordHeaders(headers),
		Timestamp: p.now(),
	})
	fields := log.Fields{"topic": topic, "key": key}
	if err != nil {
		p.logger.WithError(err).WithFields(fields).Error("kafka send failed")
		return fmt.Errorf("send to %s: %w", topic, err)
	}

	fields["partition"], fields["offset"] = partition, offset
	p.logger.WithFields(fields).Debug("kafka message sent")
	return nil
}

// recordHeaders упорядочивает заголовки по имени.
func recordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)

	records := make([]sarama.RecordHeader, 0, len(names))
	for _, name := range names {
		records = append(records, sarama.RecordHeader{Key: []byte(name), Value: []byte(headers[name])})
	}
	return records
}

// Close дожидается отправки буфера и закрывает соединения.
func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
