package adapters

import (
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
)

// requirePortAudio initializes the PortAudio host API and skips the test if
// no audio hardware is available in this environment (e.g. CI containers).
func requirePortAudio(t *testing.T) {
	t.Helper()
	if err := portaudio.Initialize(); err != nil {
		t.Skipf("PortAudio unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { portaudio.Terminate() })
}

func TestPortAudioInputNotRunningInitially(t *testing.T) {
	in := NewPortAudioInput()
	assert.False(t, in.IsRunning())
}

func TestPortAudioOutputNotRunningInitially(t *testing.T) {
	out := NewPortAudioOutput()
	assert.False(t, out.IsRunning())
}

func TestPortAudioInputStopIdempotent(t *testing.T) {
	in := NewPortAudioInput()
	assert.NoError(t, in.Stop())
	assert.NoError(t, in.Stop())
}

func TestPortAudioOutputStopIdempotent(t *testing.T) {
	out := NewPortAudioOutput()
	assert.NoError(t, out.Stop())
	assert.NoError(t, out.Stop())
}

func TestPortAudioListDevicesDoesNotPanic(t *testing.T) {
	requirePortAudio(t)

	in := NewPortAudioInput()
	_, err := in.ListDevices()
	assert.NoError(t, err)
}

func TestPortAudioInputStartUnknownDeviceErrors(t *testing.T) {
	requirePortAudio(t)

	in := NewPortAudioInput()
	err := in.Start("nonexistent-device-that-does-not-exist", func(samples []float32) {})
	assert.Error(t, err)
}

func TestPortAudioOutputStartUnknownDeviceErrors(t *testing.T) {
	requirePortAudio(t)

	out := NewPortAudioOutput()
	err := out.Start("nonexistent-device-that-does-not-exist", func(samples []float32) {})
	assert.Error(t, err)
}

func TestPortAudioInputDoubleStartErrors(t *testing.T) {
	in := &PortAudioInput{}
	in.running.Store(true)
	assert.Error(t, in.Start("anything", func(samples []float32) {}))
}

func TestPortAudioOutputDoubleStartErrors(t *testing.T) {
	out := &PortAudioOutput{}
	out.running.Store(true)
	assert.Error(t, out.Start("anything", func(samples []float32) {}))
}
