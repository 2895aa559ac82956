//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/events"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

func TestKafkaSheetEventMergesIntoStore(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]

	topic := "sheet_submissions"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	backend, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	mergeStore := store.New(backend, codec.YAML{}, store.WithLogger(log.New(io.Discard, "", 0)))

	cat, err := catalog.Parse([]byte("district_to_exercises:\n  gambe: [squat]\n"))
	require.NoError(t, err)

	handler := NewSheetHandler(mergeStore, cat)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "sheet-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()

	proc := NewProcessor(reader, handler)
	go func() {
		_ = proc.Run(consumerCtx)
	}()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	evt := events.SheetSubmitted{
		SheetID:    "sheet-int",
		PersonName: "Lorenzo",
		Exercises: []events.SubmittedExercise{
			{Name: "Squat", Weight: 100, Reps: 5},
		},
		SubmittedAt: time.Now().UTC(),
		Source:      "integration-test",
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	err = writer.WriteMessages(context.Background(), kafka.Message{
		Key:     []byte(evt.SheetID),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(events.EventTypeSheetSubmitted)}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		person, err := mergeStore.Load(ctx, "Lorenzo")
		if err != nil {
			return false
		}
		return len(person.Exercises) == 1 && len(person.Exercises[0].Volumes) == 1
	}, 30*time.Second, 500*time.Millisecond)

	person, err := mergeStore.Load(ctx, "Lorenzo")
	require.NoError(t, err)
	require.Equal(t, "Squat", person.Exercises[0].Name)
	require.Equal(t, "gambe", person.Exercises[0].District)
	require.Equal(t, 100.0, person.Exercises[0].Volumes[0].Weight)
}
