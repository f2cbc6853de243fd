package speaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_PlayWaitsForFinish(t *testing.T) {
	dev := &Fake{}
	s, err := dev.Play([]byte{1, 2}, Speech)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

	dev.Streams()[0].Finish()
	assert.NoError(t, s.Wait(context.Background()))
}

func TestFake_StopIsIdempotent(t *testing.T) {
	dev := &Fake{}
	w, err := dev.Open(Speech)
	require.NoError(t, err)
	_, err = w.Write([]byte{9})
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Wait(context.Background()))
	assert.True(t, dev.Streams()[0].Stopped())
	assert.Equal(t, []byte{9}, dev.Streams()[0].Bytes())
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "24000 Hz x1", Speech.String())
}
