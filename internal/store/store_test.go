package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/flight-weather-insights/internal/table"
)

func testTable(t *testing.T, name string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRows(name, []string{"ID", "VALUE"}, rows)
	require.NoError(t, err)
	return tbl
}

func TestMemoryStoreSaveAndGetLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	_, err := s.GetLatest("flights.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"1", "a"})))
	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"2", "b"}, []string{"3", "c"})))

	latest, err := s.GetLatest("flights.csv")
	require.NoError(t, err)
	assert.Equal(t, "flights.csv", latest.Name)
	assert.Equal(t, 2, latest.Rows)
	assert.Equal(t, "ID,VALUE\n2,b\n3,c\n", string(latest.CSV))
	assert.Equal(t, []string{"flights.csv"}, s.Names())
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.Save(ctx, testTable(t, "weather", []string{id, "x"})))
	}

	all, err := s.GetRange("weather.csv", time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, string(all[0].CSV), "\n2,x\n")
}

func TestMemoryStoreRetentionByAgeAndRange(t *testing.T) {
	now := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"old", "x"})))
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"mid", "x"})))
	now = now.Add(45 * time.Minute)
	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"new", "x"})))

	all, err := s.GetRange("flights.csv", time.Time{}, now)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, string(all[0].CSV), "mid")

	only, err := s.GetRange("flights.csv", now, now)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Contains(t, string(only[0].CSV), "new")

	_, err = s.GetRange("flights.csv", now.Add(time.Minute), now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemoryStore(0, 0).Save(ctx, testTable(t, "flights"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSinkOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	s, err := NewFileSink(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"1", "a"})))
	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"2", "b"})))

	body, err := os.ReadFile(s.Path("flights"))
	require.NoError(t, err)
	assert.Equal(t, "ID,VALUE\n2,b\n", string(body))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLiteSinkReplacesTable(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "fwi.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"1", "a"}, []string{"2", ""})))
	got, err := s.Load(ctx, "flights", []string{"ID", "VALUE"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", ""}}, got.Rows())

	require.NoError(t, s.Save(ctx, testTable(t, "flights", []string{"3", "c"})))
	got, err = s.Load(ctx, "flights", []string{"ID", "VALUE"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"3", "c"}}, got.Rows())
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaSinkPublishesRows(t *testing.T) {
	w := &recordingWriter{}
	s := NewKafkaSinkWithWriter(w, "fwi.tables")
	require.NoError(t, s.Save(context.Background(), testTable(t, "weather", []string{"loc-1", "21.5"}, []string{"loc-2", ""})))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "fwi.tables", w.msgs[0].Topic)
	assert.Equal(t, "loc-1", string(w.msgs[0].Key))
	assert.Equal(t, "table", w.msgs[0].Headers[0].Key)
	assert.Equal(t, "weather", string(w.msgs[0].Headers[0].Value))

	var rec map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &rec))
	assert.Equal(t, map[string]string{"ID": "loc-2", "VALUE": ""}, rec)

	require.NoError(t, s.Save(context.Background(), testTable(t, "weather")))
	assert.Len(t, w.msgs, 2)
}

func TestNewKafkaSinkValidates(t *testing.T) {
	_, err := NewKafkaSink(nil, "topic")
	assert.Error(t, err)
	_, err = NewKafkaSink([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

func TestMultiSinkContinuesAfterFailure(t *testing.T) {
	boom := errors.New("broker down")
	mem := NewMemoryStore(0, 0)
	m := NewMultiSink(nil,
		Named{Name: "kafka", Sink: NewKafkaSinkWithWriter(&recordingWriter{err: boom}, "t")},
		Named{Name: "memory", Sink: mem},
	)

	err := m.Save(context.Background(), testTable(t, "flights", []string{"1", "a"}))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "kafka")

	_, err = mem.GetLatest("flights.csv")
	assert.NoError(t, err)
}
