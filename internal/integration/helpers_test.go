//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/thermal-storage-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the duration of the test and
// returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("thermal-storage-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fixturePath resolves the shared OpenEI CSV regardless of the test's
// working directory.
func fixturePath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "data", "openei_loads.csv")
}

// loadMockData returns the OpenEI CSV rows as raw records.
func loadMockData(t *testing.T) []domain.RawLoadRecord {
	t.Helper()
	rows, err := csvsource.ReadAll(context.Background(), fixturePath(t), discardLogger())
	require.NoError(t, err)

	records := make([]domain.RawLoadRecord, len(rows))
	for i, row := range rows {
		require.NoError(t, json.Unmarshal(row.Value, &records[i]))
	}
	require.NotEmpty(t, records)
	return records
}

// sizedMessage holds a deserialized message read from the sink topic.
type sizedMessage struct {
	Load    domain.LocationLoad
	Key     string
	Headers map[string]string
}

// readSized reads a single message from the sink consumer and deserializes it.
func readSized(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sizedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var load domain.LocationLoad
	require.NoError(t, json.Unmarshal(msg.Value, &load), "unmarshal sink message")

	return sizedMessage{Load: load, Key: string(msg.Key), Headers: headers}
}
