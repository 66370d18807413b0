package audioengine

// Events receives the asynchronous notifications the audio and TX threads
// produce. A UI or CLI implements this to learn about waterfall data,
// decoded text, and transmit progress without polling.
type Events interface {
	AudioStatus(status string)
	FFTData(magnitudes []float32)
	RxText(text string)
	SignalLevel(level float32)
	TxStatus(status string, progress float32)

	// SerialDisconnected fires when a radio command fails with a serial-level
	// error: the radio handle has already been dropped and port cleared by
	// the time this is called, so a listener's job is just to tell the user.
	SerialDisconnected(reason, port string)
}

// NoopEvents discards every event; useful for headless use or tests that
// don't care about notifications.
type NoopEvents struct{}

func (NoopEvents) AudioStatus(string)              {}
func (NoopEvents) FFTData([]float32)               {}
func (NoopEvents) RxText(string)                   {}
func (NoopEvents) SignalLevel(float32)             {}
func (NoopEvents) TxStatus(string, float32)        {}
func (NoopEvents) SerialDisconnected(string, string) {}
