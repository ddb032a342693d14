package outbox

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"hoppyhub/pkg/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher запоминает опубликованные сообщения в порядке отправки
type fakePublisher struct {
	topics   []string
	keys     []string
	payloads [][]byte
	failErr  error
}

func (p *fakePublisher) PublishMessage(ctx context.Context, topic, key string, value []byte) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, value)
	return nil
}

func (p *fakePublisher) PublishEvent(ctx context.Context, event events.Event) error {
	data, err := events.Marshal(event)
	if err != nil {
		return err
	}
	return p.PublishMessage(ctx, event.Topic(), event.Key(), data)
}

func TestFlush_PublishesPendingInOrder(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	publisher := &fakePublisher{}
	relay := NewRelay("opinion-service", db, publisher)

	rows := sqlmock.NewRows([]string{"id", "event_type", "topic", "key", "payload", "published"}).
		AddRow(1, events.TypeBeerOpinionChanged, events.TopicOpinionEvents, "beer-1", []byte(`{"v":1}`), false).
		AddRow(2, events.TypeBeerOpinionChanged, events.TopicOpinionEvents, "beer-1", []byte(`{"v":2}`), false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "event_outbox" WHERE published = $1`)).
		WithArgs(false, defaultBatchSize).
		WillReturnRows(rows)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "event_outbox" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "event_outbox"`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	published, err := relay.Flush(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, published)
	// Порядок вставки сохранён - per-key ordering не нарушается
	assert.Equal(t, [][]byte{[]byte(`{"v":1}`), []byte(`{"v":2}`)}, publisher.payloads)
	assert.Equal(t, []string{"beer-1", "beer-1"}, publisher.keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlush_BrokerDown_RecordsStayPending(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	brokerErr := errors.New("broker unreachable")
	publisher := &fakePublisher{failErr: brokerErr}
	relay := NewRelay("opinion-service", db, publisher)

	rows := sqlmock.NewRows([]string{"id", "event_type", "topic", "key", "payload", "published"}).
		AddRow(1, events.TypeBeerOpinionChanged, events.TopicOpinionEvents, "beer-1", []byte(`{"v":1}`), false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "event_outbox" WHERE published = $1`)).
		WithArgs(false, defaultBatchSize).
		WillReturnRows(rows)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "event_outbox"`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	published, err := relay.Flush(context.Background())

	// Запись не помечена published - следующий Flush попробует снова
	assert.ErrorIs(t, err, brokerErr)
	assert.Equal(t, 0, published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlush_NoPending(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	publisher := &fakePublisher{}
	relay := NewRelay("opinion-service", db, publisher)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "event_outbox" WHERE published = $1`)).
		WithArgs(false, defaultBatchSize).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "topic", "key", "payload", "published"}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "event_outbox"`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	published, err := relay.Flush(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, published)
	assert.Empty(t, publisher.payloads)
	assert.NoError(t, mock.ExpectationsWereMet())
}
