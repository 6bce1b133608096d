package analog

// Source reads raw converter counts from an analog channel.
type Source interface {
	Read(channel int) (int, error)
}

// Device is a Source with a connection lifecycle (real or mocked).
type Device interface {
	Source
	Connect() error
	Close() error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// Ensure ADS1115 implements Device.
var _ Device = (*ADS1115)(nil)
