package analog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the UART rate used by the firmware.
	DefaultBaudRate = 115200
	// DefaultTimeout bounds how long a single reply may take.
	DefaultTimeout = 500 * time.Millisecond

	// maxSkippedLines is how many unrelated or malformed lines Read tolerates
	// before giving up on a reply.
	maxSkippedLines = 8
)

var (
	// ErrNotConnected is returned when reading from a closed device.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Connect on an open device.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrTimeout is returned when the device does not answer in time.
	ErrTimeout = errors.New("timed out waiting for reply")
)

// Reading is a single reply from the firmware.
type Reading struct {
	Channel int
	Value   int
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads analog channels from a microcontroller running the phprobe firmware.
// Each Read sends "A<channel>\n" and waits for "<channel>,<reading>\n".
type Serial struct {
	port     string
	baudRate int
	timeout  time.Duration
	log      logrus.FieldLogger

	mu        sync.Mutex
	conn      io.ReadWriteCloser
	buf       []byte
	chunk     [64]byte
	connected bool
}

// NewSerial creates a new Serial source for the given port. Zero baud rate and
// timeout select the defaults.
func NewSerial(port string, baudRate int, timeout time.Duration) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		timeout:  timeout,
		log:      logrus.WithField("port", port),
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{
		BaudRate: d.baudRate,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	if err := port.SetReadTimeout(d.timeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", d.port, err)
	}

	d.attach(port)
	return nil
}

// attach binds an open connection. Callers hold d.mu.
func (d *Serial) attach(conn io.ReadWriteCloser) {
	d.conn = conn
	d.buf = d.buf[:0]
	d.connected = true
}

// Close closes the serial port.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.connected = false
	conn := d.conn
	d.conn = nil

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", d.port, err)
	}
	return nil
}

// IsConnected returns whether the port is open.
func (d *Serial) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Read requests a single conversion of the channel and returns its count.
func (d *Serial) Read(channel int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return 0, ErrNotConnected
	}
	if channel < 0 {
		return 0, fmt.Errorf("invalid channel %d", channel)
	}

	// Anything still buffered belongs to an earlier, abandoned request.
	d.buf = d.buf[:0]

	if _, err := fmt.Fprintf(d.conn, "A%d\n", channel); err != nil {
		return 0, fmt.Errorf("failed to send request for channel %d: %w", channel, err)
	}

	for i := 0; i < maxSkippedLines; i++ {
		line, err := d.readLine()
		if err != nil {
			return 0, fmt.Errorf("failed to read channel %d: %w", channel, err)
		}
		if line == "" {
			continue
		}

		reading, err := parseLine(line)
		if err != nil {
			d.log.WithError(err).Warnf("Skipping line %q", line)
			continue
		}
		if reading.Channel != channel {
			d.log.Debugf("Skipping reply for channel %d while waiting for %d", reading.Channel, channel)
			continue
		}

		return reading.Value, nil
	}

	return 0, fmt.Errorf("no valid reply for channel %d after %d lines", channel, maxSkippedLines)
}

// readLine returns the next newline-terminated line without surrounding whitespace.
// A zero-byte read means the port timed out.
func (d *Serial) readLine() (string, error) {
	for {
		if i := bytes.IndexByte(d.buf, '\n'); i >= 0 {
			line := string(d.buf[:i])
			d.buf = d.buf[i+1:]
			return strings.TrimSpace(line), nil
		}

		n, err := d.conn.Read(d.chunk[:])
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", ErrTimeout
		}
		d.buf = append(d.buf, d.chunk[:n]...)
	}
}

// parseLine parses a firmware reply.
// Format: channel,reading
// Example: 0,512
func parseLine(line string) (Reading, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Reading{}, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	channel, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid channel: %w", err)
	}

	value, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid reading: %w", err)
	}
	if value > MaxReading {
		return Reading{}, fmt.Errorf("reading out of range: %d (max %d)", value, MaxReading)
	}

	return Reading{
		Channel: int(channel),
		Value:   int(value),
	}, nil
}
