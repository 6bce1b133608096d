package analog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort answers requests from a script. An empty buffer reads as a timeout,
// like go.bug.st/serial with a read timeout set.
type fakePort struct {
	replies map[string]string
	out     bytes.Buffer
	written []string
	closed  bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	req := string(b)
	p.written = append(p.written, req)
	p.out.WriteString(p.replies[req])
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.out.Len() == 0 {
		return 0, nil
	}
	return p.out.Read(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newTestSerial(port *fakePort) *Serial {
	d := NewSerial("test", 0, 0)
	d.mu.Lock()
	d.attach(port)
	d.mu.Unlock()
	return d
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Reading
		wantErr bool
	}{
		{
			name: "valid line",
			line: "0,512",
			want: Reading{Channel: 0, Value: 512},
		},
		{
			name: "valid line - max reading",
			line: "3,1023",
			want: Reading{Channel: 3, Value: 1023},
		},
		{
			name: "valid line - zero reading",
			line: "1,0",
			want: Reading{Channel: 1, Value: 0},
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "512",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "0,512,1",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric channel",
			line:    "a,512",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric reading",
			line:    "0,abc",
			wantErr: true,
		},
		{
			name:    "invalid - negative reading",
			line:    "0,-1",
			wantErr: true,
		},
		{
			name:    "invalid - reading out of range",
			line:    "0,1024",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewSerial_Defaults(t *testing.T) {
	d := NewSerial("/dev/ttyACM0", 0, 0)
	assert.Equal(t, DefaultBaudRate, d.baudRate)
	assert.Equal(t, DefaultTimeout, d.timeout)
	assert.False(t, d.IsConnected())

	d = NewSerial("/dev/ttyACM0", 9600, time.Second)
	assert.Equal(t, 9600, d.baudRate)
	assert.Equal(t, time.Second, d.timeout)
}

func TestSerial_Read(t *testing.T) {
	port := &fakePort{replies: map[string]string{
		"A0\n": "0,512\r\n",
		"A2\n": "2,87\n",
	}}
	d := newTestSerial(port)

	v, err := d.Read(0)
	require.NoError(t, err)
	assert.Equal(t, 512, v)

	v, err = d.Read(2)
	require.NoError(t, err)
	assert.Equal(t, 87, v)

	assert.Equal(t, []string{"A0\n", "A2\n"}, port.written)
}

func TestSerial_Read_SkipsUnrelatedLines(t *testing.T) {
	port := &fakePort{replies: map[string]string{
		"A1\n": "\nboot ok\n0,100\n1,5000\n1,300\n",
	}}
	d := newTestSerial(port)

	v, err := d.Read(1)
	require.NoError(t, err)
	assert.Equal(t, 300, v)
}

func TestSerial_Read_Timeout(t *testing.T) {
	d := newTestSerial(&fakePort{})

	_, err := d.Read(0)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSerial_Read_TooManyLines(t *testing.T) {
	port := &fakePort{replies: map[string]string{
		"A0\n": strings.Repeat("1,1\n", maxSkippedLines+1),
	}}
	d := newTestSerial(port)

	_, err := d.Read(0)
	assert.Error(t, err)
}

func TestSerial_Read_DiscardsStaleData(t *testing.T) {
	port := &fakePort{replies: map[string]string{
		"A0\n": "0,10\n",
	}}
	d := newTestSerial(port)
	d.buf = append(d.buf, []byte("0,999\n")...)

	v, err := d.Read(0)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestSerial_Read_InvalidChannel(t *testing.T) {
	d := newTestSerial(&fakePort{})
	_, err := d.Read(-1)
	assert.Error(t, err)
}

func TestSerial_NotConnected(t *testing.T) {
	d := NewSerial("test", 0, 0)
	_, err := d.Read(0)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, d.Close())
}

func TestSerial_Close(t *testing.T) {
	port := &fakePort{}
	d := newTestSerial(port)
	assert.True(t, d.IsConnected())

	require.NoError(t, d.Close())
	assert.True(t, port.closed)
	assert.False(t, d.IsConnected())

	_, err := d.Read(0)
	assert.ErrorIs(t, err, ErrNotConnected)
}
