package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbz/rt-trainer/internal/config"
	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/server"
	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/store"
)

var params = scenario.Params{Seed: 42, Prefix: "none", UserCallsign: "G-ABCD", AircraftType: "PA28"}

func newClient(t *testing.T) *Client {
	t.Helper()
	sess, err := scenario.NewDefault()
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	srv, err := server.New(config.Default().Server, sess, store.NewMemoryStore(), 8, log)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL + "/")
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
}

func TestRESTRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	s, err := c.Create(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), s.Seed)

	turn, err := c.Transmit(ctx, s.ID, s.State.CurrentTarget.Callsign+", G-ABCD, radio check")
	require.NoError(t, err)
	assert.True(t, turn.Advanced)

	got, err := c.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, turn.State, got.State)
}

func TestStatusErrors(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "0b7e4cbe-4b5e-4a3c-9d55-2a0f3a0c8a11")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)

	p := params
	p.AircraftType = ""
	_, err = c.Create(ctx, p)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Body, "aircraft_type")
}

func TestStream(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	s, err := c.Create(ctx, params)
	require.NoError(t, err)

	stream, err := c.Connect(ctx, s.ID)
	require.NoError(t, err)
	defer stream.Close()

	turn, err := stream.Send("London Information, G-ABCD, radio check")
	require.NoError(t, err)
	require.NotNil(t, turn.Error)
	assert.Equal(t, phraseology.WrongStation, turn.Error.Kind)

	turn, err = stream.Send(s.State.CurrentTarget.Callsign + ", G-ABCD, radio check")
	require.NoError(t, err)
	assert.True(t, turn.Advanced)
	assert.Equal(t, int(state.PreDepartInfo), turn.State.Key().Stage)

	_, err = c.Connect(ctx, "nope")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}
