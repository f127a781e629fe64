// Команда dlq-replay возвращает события заказов из DLQ в основной топик.
// По умолчанию работает в режиме dry-run и только логирует кандидатов.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
)

const (
	envKafkaBrokers = "STOREFRONT_KAFKA_BROKERS"

	defaultLimit       = 100
	defaultIdleTimeout = 2 * time.Second
)

var errBrokersRequired = errors.New("kafka brokers are required (-brokers or " + envKafkaBrokers + ")")

// errNotOutboxRecord помечает сообщения DLQ, которые не были отправлены outbox worker.
var errNotOutboxRecord = errors.New("message is not an outbox dlq record")

type options struct {
	brokers     []string
	sourceTopic string
	targetTopic string
	eventType   string
	limit       int
	execute     bool
	fromNewest  bool
	idleTimeout time.Duration
}

type offsetClient interface {
	GetOffset(topic string, partition int32, time int64) (int64, error)
	Partitions(topic string) ([]int32, error)
}

type partitionConsumer interface {
	Messages() <-chan *sarama.ConsumerMessage
	Errors() <-chan *sarama.ConsumerError
	Close() error
}

type partitionSource interface {
	ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error)
}

type saramaSource struct {
	consumer sarama.Consumer
}

func (s saramaSource) ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error) {
	return s.consumer.ConsumePartition(topic, partition, offset)
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	opts, err := parseFlags(os.Args[1:], os.LookupEnv)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := connect(opts)
	if err != nil {
		fail(err)
	}
	defer conn.close()

	r := &replayer{
		opts:      opts,
		client:    conn.client,
		source:    saramaSource{consumer: conn.consumer},
		publisher: conn.publisher,
		logger:    log.WithField("component", "dlq-replay"),
	}
	stats, err := r.run(ctx)
	if err != nil {
		fail(fmt.Errorf("dlq replay failed: %w", err))
	}
	printStats(os.Stdout, opts, stats)
}

func parseFlags(args []string, lookup func(string) (string, bool)) (options, error) {
	fs := flag.NewFlagSet("dlq-replay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokers string
		opts    options
	)
	fs.StringVar(&brokers, "brokers", "", "kafka brokers, comma separated (fallback: "+envKafkaBrokers+")")
	fs.StringVar(&opts.sourceTopic, "source-topic", kafka.TopicDeadLetterQueue, "dlq topic to scan")
	fs.StringVar(&opts.targetTopic, "target-topic", kafka.TopicOrderEvents, "topic to replay into")
	fs.StringVar(&opts.eventType, "event-type", "", "replay only this event type, e.g. order.paid")
	fs.IntVar(&opts.limit, "limit", defaultLimit, "max messages to scan")
	fs.BoolVar(&opts.execute, "execute", false, "publish replayed events; dry-run otherwise")
	fs.BoolVar(&opts.fromNewest, "from-newest", false, "scan the newest messages of each partition")
	fs.DurationVar(&opts.idleTimeout, "idle-timeout", defaultIdleTimeout, "stop reading a partition after this idle time")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if strings.TrimSpace(brokers) == "" {
		brokers, _ = lookup(envKafkaBrokers)
	}
	opts.brokers = kafka.ParseBrokers(brokers)
	opts.sourceTopic = strings.TrimSpace(opts.sourceTopic)
	opts.targetTopic = strings.TrimSpace(opts.targetTopic)
	opts.eventType = strings.TrimSpace(opts.eventType)

	switch {
	case len(opts.brokers) == 0:
		return options{}, errBrokersRequired
	case opts.sourceTopic == "" || opts.targetTopic == "":
		return options{}, errors.New("source and target topics are required")
	case opts.sourceTopic == opts.targetTopic:
		return options{}, errors.New("source and target topics must differ")
	case opts.limit <= 0:
		return options{}, errors.New("limit must be positive")
	case opts.idleTimeout <= 0:
		return options{}, errors.New("idle-timeout must be positive")
	}
	return opts, nil
}

type connection struct {
	client    sarama.Client
	consumer  sarama.Consumer
	producer  *kafka.Producer
	publisher domain.OutboxPublisher
}

// connect открывает клиента и consumer; producer создаётся только в режиме execute.
func connect(opts options) (*connection, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Return.Errors = true

	client, err := sarama.NewClient(opts.brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	conn := &connection{client: client, consumer: consumer}
	if !opts.execute {
		return conn, nil
	}

	producer, err := kafka.NewProducer(opts.brokers, kafka.WithClientID("storefront-dlq-replay"))
	if err != nil {
		conn.close()
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	conn.producer = producer
	conn.publisher = kafka.NewOutboxPublisher(producer, opts.targetTopic)
	return conn, nil
}

func (c *connection) close() {
	if c.producer != nil {
		_ = c.producer.Close()
	}
	_ = c.consumer.Close()
	_ = c.client.Close()
}

type replayStats struct {
	scanned  int
	replayed int
	skipped  int
}

func (s *replayStats) add(other replayStats) {
	s.scanned += other.scanned
	s.replayed += other.replayed
	s.skipped += other.skipped
}

type replayer struct {
	opts      options
	client    offsetClient
	source    partitionSource
	publisher domain.OutboxPublisher
	logger    *log.Entry
}

// run обходит партиции DLQ по возрастанию номера, пока не исчерпан лимит.
func (r *replayer) run(ctx context.Context) (replayStats, error) {
	var total replayStats
	if r.opts.execute && r.publisher == nil {
		return total, errors.New("publisher is required in execute mode")
	}

	partitions, err := r.client.Partitions(r.opts.sourceTopic)
	if err != nil {
		return total, fmt.Errorf("list partitions of %s: %w", r.opts.sourceTopic, err)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i] < partitions[j] })

	for _, partition := range partitions {
		remaining := r.opts.limit - total.scanned
		if remaining <= 0 {
			break
		}
		stats, err := r.replayPartition(ctx, partition, remaining)
		total.add(stats)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (r *replayer) replayPartition(ctx context.Context, partition int32, limit int) (replayStats, error) {
	var stats replayStats

	oldest, err := r.client.GetOffset(r.opts.sourceTopic, partition, sarama.OffsetOldest)
	if err != nil {
		return stats, fmt.Errorf("oldest offset of partition %d: %w", partition, err)
	}
	newest, err := r.client.GetOffset(r.opts.sourceTopic, partition, sarama.OffsetNewest)
	if err != nil {
		return stats, fmt.Errorf("newest offset of partition %d: %w", partition, err)
	}
	if newest <= oldest {
		return stats, nil
	}

	start := oldest
	if r.opts.fromNewest && newest-int64(limit) > oldest {
		start = newest - int64(limit)
	}

	pc, err := r.source.ConsumePartition(r.opts.sourceTopic, partition, start)
	if err != nil {
		return stats, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = pc.Close() }()

	idle := time.NewTimer(r.opts.idleTimeout)
	defer idle.Stop()

	for stats.scanned < limit {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-idle.C:
			r.logger.WithField("partition", partition).Warn("partition idle, stopping early")
			return stats, nil
		case cerr, ok := <-pc.Errors():
			if ok && cerr != nil {
				return stats, fmt.Errorf("partition %d: %w", partition, cerr)
			}
		case msg, ok := <-pc.Messages():
			if !ok || msg == nil || msg.Offset >= newest {
				return stats, nil
			}
			stats.scanned++
			if err := r.handle(msg, &stats); err != nil {
				return stats, err
			}
			if msg.Offset+1 >= newest {
				return stats, nil
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(r.opts.idleTimeout)
		}
	}
	return stats, nil
}

func (r *replayer) handle(msg *sarama.ConsumerMessage, stats *replayStats) error {
	fields := log.Fields{"partition": msg.Partition, "offset": msg.Offset}

	dl, err := decodeDLQMessage(msg.Value)
	if err != nil {
		stats.skipped++
		r.logger.WithError(err).WithFields(fields).Warn("skip dlq message")
		return nil
	}
	event := dl.Original()
	if r.opts.eventType != "" && event.EventType != r.opts.eventType {
		stats.skipped++
		return nil
	}

	fields["outbox_id"] = event.ID
	fields["order_id"] = event.AggregateID
	fields["event_type"] = event.EventType
	fields["publish_error"] = dl.PublishError
	fields["dead_lettered_at"] = dl.DLQPublishedAt

	if !r.opts.execute {
		stats.replayed++
		r.logger.WithFields(fields).Info("dlq replay candidate")
		return nil
	}
	if err := r.publisher.Publish(event); err != nil {
		return fmt.Errorf("replay outbox message %s: %w", event.ID, err)
	}
	stats.replayed++
	r.logger.WithFields(fields).Info("dlq message replayed")
	return nil
}

// decodeDLQMessage достаёт запись DeadLetter из конверта DLQ-топика.
func decodeDLQMessage(value []byte) (outbox.DeadLetter, error) {
	var envelope kafka.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		return outbox.DeadLetter{}, fmt.Errorf("%w: %v", errNotOutboxRecord, err)
	}
	if len(envelope.Payload) == 0 {
		return outbox.DeadLetter{}, errNotOutboxRecord
	}
	dl, err := outbox.DecodeDeadLetter(envelope.Payload)
	if err != nil {
		return outbox.DeadLetter{}, fmt.Errorf("%w: %v", errNotOutboxRecord, err)
	}
	return dl, nil
}

func printStats(out io.Writer, opts options, stats replayStats) {
	mode := "dry-run"
	if opts.execute {
		mode = "execute"
	}
	_, _ = fmt.Fprintf(out, "dlq replay %s: scanned=%d replayed=%d skipped=%d\n", mode, stats.scanned, stats.replayed, stats.skipped)
}

func fail(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
