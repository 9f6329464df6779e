// Package trigger drives a DLP-IO8-G USB I/O board over a serial port, used
// to mark stimulus windows on external recording equipment (EEG, eye
// trackers).
package trigger

import (
	"github.com/m-mizutani/goerr/v2"
	"go.bug.st/serial"
)

// Port is one open DLP-IO8-G device. Mark and Clear toggle the stimulus line.
type Port struct {
	port serial.Port
	line byte
}

// The board sets a line with its digit character and clears it with the
// letter sharing that key: '1'->'Q', '2'->'W', ... '8'->'I'.
var clearCode = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

// Open connects to the device, verifies it responds to a ping and switches it
// to binary mode. line is the output line (1-8) used for stimulus marks.
func Open(device string, baudrate int, line int) (*Port, error) {
	if line < 1 || line > 8 {
		return nil, goerr.New("trigger line must be in 1..8", goerr.V("line", line))
	}

	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open trigger device", goerr.V("device", device))
	}

	if _, err := port.Write([]byte{0x27}); err != nil { // ping
		port.Close()
		return nil, goerr.Wrap(err, "trigger ping write failed")
	}
	buf := make([]byte, 1)
	n, err := port.Read(buf)
	if err != nil || n != 1 || buf[0] != 'Q' {
		port.Close()
		return nil, goerr.New("trigger device did not respond to ping", goerr.V("device", device))
	}

	if _, err := port.Write([]byte{0x5C}); err != nil { // binary mode
		port.Close()
		return nil, goerr.Wrap(err, "trigger mode switch failed")
	}

	return &Port{port: port, line: byte('0' + line)}, nil
}

func (p *Port) Close() {
	if p.port != nil {
		p.port.Close()
	}
}

// Mark raises the stimulus line.
func (p *Port) Mark() error {
	if _, err := p.port.Write([]byte{p.line}); err != nil {
		return goerr.Wrap(err, "trigger mark failed")
	}
	return nil
}

// Clear lowers the stimulus line.
func (p *Port) Clear() error {
	if _, err := p.port.Write([]byte{clearCode[p.line]}); err != nil {
		return goerr.Wrap(err, "trigger clear failed")
	}
	return nil
}
