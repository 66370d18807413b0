package cat

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

// commandDelay is the minimum delay between CAT commands the FT-991A
// firmware requires.
const commandDelay = 50 * time.Millisecond

// responseOverallTimeout bounds the total wall-clock time readUntilSemicolon
// will wait for a terminator, regardless of how many reads that takes. A
// well-behaved radio that trickles the response in one byte at a time (slow
// USB-serial adapters do this) must still have its full reply accumulated,
// so this is a time budget, not a read-count budget.
const responseOverallTimeout = 2 * time.Second

// maxConsecutiveEmptyReads bounds how many reads in a row are allowed to
// return nothing before giving up, so a radio that never responds at all
// doesn't block for the full responseOverallTimeout. It resets to zero on
// any read that makes forward progress, so a slow-but-steady trickle of
// bytes is never mistaken for a stalled connection.
const maxConsecutiveEmptyReads = 20

// readChunkSize is how much a single serial.Read call asks for at a time.
const readChunkSize = 64

// Session owns a serial connection and executes CAT commands against the
// FT-991A: it enforces the inter-command delay, writes the wire string,
// reads until a ';' terminator, strips any command echo, then hands the
// raw response to Decode.
//
// Unlike a fixed-size read buffer, the response accumulator here grows as
// needed so a reply longer than one read chunk (or a doubled echo) is never
// silently truncated.
type Session struct {
	serial          ports.SerialConnection
	lastCommandTime time.Time
}

// NewSession wraps an already-open serial connection.
func NewSession(serial ports.SerialConnection) *Session {
	return &Session{serial: serial}
}

// Execute sends cmd and returns the parsed response.
func (s *Session) Execute(cmd Command) (Response, error) {
	s.ensureCommandDelay()

	wire := Encode(cmd)
	log.Debug("cat tx", "wire", wire)

	if _, err := s.serial.Write([]byte(wire)); err != nil {
		return Response{}, domain.Wrap(domain.KindSerial, "command '"+wire+"' write failed", err)
	}

	raw, err := s.readUntilSemicolon(wire)
	s.lastCommandTime = time.Now()
	if err != nil {
		return Response{}, err
	}

	log.Debug("cat rx", "raw", raw)

	// Strip command echo if present (some USB-serial adapters echo the TX).
	raw = strings.TrimPrefix(raw, wire)

	return Decode(raw, cmd)
}

// readUntilSemicolon reads from the serial port until a ';' terminator
// appears, growing its accumulator buffer as needed. It gives up once either
// responseOverallTimeout has elapsed or maxConsecutiveEmptyReads reads in a
// row returned nothing, whichever comes first — a steady trickle of single
// bytes keeps resetting the latter, so it never cuts off a slow-but-live
// response.
func (s *Session) readUntilSemicolon(cmdWire string) (string, error) {
	var accumulated []byte
	chunk := make([]byte, readChunkSize)
	deadline := time.Now().Add(responseOverallTimeout)
	emptyReads := 0

	for time.Now().Before(deadline) {
		n, err := s.serial.Read(chunk)
		if n > 0 {
			accumulated = append(accumulated, chunk[:n]...)
			emptyReads = 0
			if strings.ContainsRune(string(accumulated), ';') {
				break
			}
			continue
		}
		if err != nil && len(accumulated) == 0 {
			return "", domain.Wrap(domain.KindSerial, "command '"+cmdWire+"' read failed", err)
		}
		// Zero bytes with no error, or a timeout after partial data: retry,
		// up to maxConsecutiveEmptyReads before giving up.
		emptyReads++
		if emptyReads >= maxConsecutiveEmptyReads {
			break
		}
	}

	if len(accumulated) == 0 {
		return "", domain.NewError(domain.KindCat, "command '%s': no response from radio", cmdWire)
	}

	return string(accumulated), nil
}

// ensureCommandDelay sleeps if necessary to maintain the minimum
// inter-command delay the radio's firmware requires.
func (s *Session) ensureCommandDelay() {
	if s.lastCommandTime.IsZero() {
		return
	}
	elapsed := time.Since(s.lastCommandTime)
	if elapsed < commandDelay {
		time.Sleep(commandDelay - elapsed)
	}
}
