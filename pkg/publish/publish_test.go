package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/leaderboard"
	"github.com/mpapenbr/racereplay/pkg/model"
)

type message struct {
	subject string
	data    []byte
}

type mockConn struct {
	msgs    []message
	flushed int
	err     error
}

func (m *mockConn) Publish(subj string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, message{subj, data})
	return nil
}

func (m *mockConn) Flush() error {
	m.flushed++
	return nil
}

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		SessionTime: 12.5,
		Drivers: []model.DriverSnapshot{
			{ID: "1", Code: "VER", Position: 1, Lap: 2},
			{ID: "16", Code: "LEC", Position: 2, Lap: 2, GapToLeader: 1.25},
		},
	}
}

func TestNatsPublisher(t *testing.T) {
	conn := &mockConn{}
	p, err := NewNatsPublisher(conn, "abc", WithLogger(log.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, "racereplay.abc.snapshot", p.Subject())

	require.NoError(t, p.Publish(context.Background(), testSnapshot()))
	require.NoError(t, p.Close())

	require.Len(t, conn.msgs, 3)
	assert.Equal(t, SubjectRegistered, conn.msgs[0].subject)
	assert.JSONEq(t, `{"session":"abc","subject":"racereplay.abc.snapshot"}`, string(conn.msgs[0].data))

	assert.Equal(t, "racereplay.abc.snapshot", conn.msgs[1].subject)
	got := model.Snapshot{}
	require.NoError(t, json.Unmarshal(conn.msgs[1].data, &got))
	assert.Equal(t, *testSnapshot(), got)

	assert.Equal(t, message{SubjectUnregistered, []byte("abc")}, conn.msgs[2])
	assert.Equal(t, 1, conn.flushed)
}

func TestNatsPublisherSubject(t *testing.T) {
	conn := &mockConn{}
	p, err := NewNatsPublisher(conn, "abc", WithLogger(log.NewNop()), WithSubject("custom"))
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), testSnapshot()))
	assert.Equal(t, "custom", conn.msgs[1].subject)
}

func TestNatsPublisherError(t *testing.T) {
	conn := &mockConn{err: errors.New("no connection")}
	_, err := NewNatsPublisher(conn, "abc", WithLogger(log.NewNop()))
	assert.ErrorContains(t, err, "no connection")
}

func TestJSONPublisher(t *testing.T) {
	var b bytes.Buffer
	p := NewJSONPublisher(&b)
	require.NoError(t, p.Publish(context.Background(), testSnapshot()))
	require.NoError(t, p.Publish(context.Background(), testSnapshot()))
	require.NoError(t, p.Close())

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)
	got := model.Snapshot{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, 12.5, got.SessionTime)
	assert.Equal(t, "LEC", got.Drivers[1].Code)
}

func TestTablePublisher(t *testing.T) {
	var b bytes.Buffer
	p := NewTablePublisher(&b, leaderboard.NewRenderer())
	require.NoError(t, p.Publish(context.Background(), testSnapshot()))
	assert.Contains(t, b.String(), "+1.250")
	assert.Contains(t, b.String(), leaderboard.LeaderText)
}
