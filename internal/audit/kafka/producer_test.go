package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"abacus/internal/audit"
	"abacus/internal/platform/config"
)

type fakeClient struct {
	ctxs     []context.Context
	records  []*kgo.Record
	fail     error
	flushed  bool
	closed   bool
	flushErr error
}

func (f *fakeClient) Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	f.ctxs = append(f.ctxs, ctx)
	f.records = append(f.records, r)
	promise(r, f.fail)
}

func (f *fakeClient) Flush(context.Context) error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeClient) Close() { f.closed = true }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSinkAppendProducesJSON(t *testing.T) {
	client := &fakeClient{}
	sink := newSink(client, "audit", discard())

	event := audit.Event{ID: "e1", Type: audit.EventCalculationPerformed, CalculatorID: "bmi", RiskLevel: "Low"}
	require.NoError(t, sink.Append(context.Background(), event))

	require.Len(t, client.records, 1)
	rec := client.records[0]
	assert.Equal(t, "audit", rec.Topic)
	assert.Equal(t, []byte("bmi"), rec.Key)
	assert.Equal(t, "calculation_performed", string(rec.Headers[0].Value))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestSinkAppendSurvivesProduceFailure(t *testing.T) {
	client := &fakeClient{fail: errors.New("broker down")}
	sink := newSink(client, "audit", discard())
	assert.NoError(t, sink.Append(context.Background(), audit.Event{ID: "e1"}))
}

func TestSinkAppendOutlivesCancelledContext(t *testing.T) {
	client := &fakeClient{}
	sink := newSink(client, "audit", discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, sink.Append(ctx, audit.Event{ID: "e1", CalculatorID: "bmi"}))

	require.Len(t, client.ctxs, 1)
	assert.NoError(t, client.ctxs[0].Err())
}

func TestSinkCloseFlushes(t *testing.T) {
	client := &fakeClient{flushErr: context.DeadlineExceeded}
	sink := newSink(client, "audit", discard())

	err := sink.Close(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, client.flushed)
	assert.True(t, client.closed)
}

type fakeAdmin struct {
	resp kadm.CreateTopicResponses
	err  error
}

func (f fakeAdmin) CreateTopics(context.Context, int32, int16, map[string]*string, ...string) (kadm.CreateTopicResponses, error) {
	return f.resp, f.err
}

func TestEnsureTopic(t *testing.T) {
	cfg := config.KafkaConfig{Topic: "audit", Partitions: 1, ReplicationFactor: 1}

	t.Run("created", func(t *testing.T) {
		admin := fakeAdmin{resp: kadm.CreateTopicResponses{"audit": {Topic: "audit"}}}
		assert.NoError(t, EnsureTopic(context.Background(), admin, cfg))
	})

	t.Run("already exists", func(t *testing.T) {
		admin := fakeAdmin{resp: kadm.CreateTopicResponses{"audit": {Topic: "audit", Err: kerr.TopicAlreadyExists}}}
		assert.NoError(t, EnsureTopic(context.Background(), admin, cfg))
	})

	t.Run("broker rejects", func(t *testing.T) {
		admin := fakeAdmin{resp: kadm.CreateTopicResponses{"audit": {Topic: "audit", Err: kerr.PolicyViolation}}}
		assert.ErrorIs(t, EnsureTopic(context.Background(), admin, cfg), kerr.PolicyViolation)
	})

	t.Run("request fails", func(t *testing.T) {
		admin := fakeAdmin{err: errors.New("no brokers")}
		assert.Error(t, EnsureTopic(context.Background(), admin, cfg))
	})
}
