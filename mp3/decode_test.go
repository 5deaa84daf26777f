package mp3_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/faiface/dtmf/mp3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty": nil,
		"wave":  []byte("RIFF\x24\x00\x00\x00WAVEfmt "),
	} {
		t.Run(name, func(t *testing.T) {
			rc := &closeRecorder{Reader: bytes.NewReader(data)}
			_, _, err := mp3.Decode(rc)
			require.Error(t, err)
			assert.True(t, rc.closed, "the source is closed on failure")
		})
	}
}
