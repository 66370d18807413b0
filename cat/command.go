// Package cat implements the Yaesu FT-991A CAT (Computer Aided Transceiver)
// protocol: pure encode/decode of the wire format plus a stateful session
// that drives the timing and I/O a real serial link needs.
package cat

import "fmt"

// ModeEntry pairs a single-character FT-991A mode code with its
// human-readable name.
type ModeEntry struct {
	Code string
	Name string
}

// ModeTable is the single source of truth for FT-991A mode code <-> name
// mapping.
var ModeTable = []ModeEntry{
	{"1", "LSB"},
	{"2", "USB"},
	{"3", "CW"},
	{"4", "FM"},
	{"5", "AM"},
	{"6", "RTTY-LSB"},
	{"7", "CW-R"},
	{"8", "DATA-LSB"},
	{"9", "RTTY-USB"},
	{"A", "DATA-FM"},
	{"B", "FM-N"},
	{"C", "DATA-USB"},
	{"D", "AM-N"},
	{"E", "C4FM"},
}

// CommandKind identifies which FT-991A command a Command value carries.
type CommandKind int

const (
	GetFrequencyA CommandKind = iota
	SetFrequencyA
	GetMode
	SetMode
	PttOff
	PttOn
	GetTxPower
	SetTxPower
)

// Command is a high-level CAT command understood by the FT-991A. Only the
// field relevant to Kind is populated: FrequencyHz for *FrequencyA,
// ModeName for SetMode, Watts for SetTxPower.
type Command struct {
	Kind        CommandKind
	FrequencyHz uint64
	ModeName    string
	Watts       uint32
}

func (c Command) String() string {
	switch c.Kind {
	case GetFrequencyA:
		return "GetFrequencyA"
	case SetFrequencyA:
		return fmt.Sprintf("SetFrequencyA(%d)", c.FrequencyHz)
	case GetMode:
		return "GetMode"
	case SetMode:
		return fmt.Sprintf("SetMode(%q)", c.ModeName)
	case PttOff:
		return "PttOff"
	case PttOn:
		return "PttOn"
	case GetTxPower:
		return "GetTxPower"
	case SetTxPower:
		return fmt.Sprintf("SetTxPower(%d)", c.Watts)
	default:
		return "Unknown"
	}
}

// ResponseKind identifies which field of a Response is populated.
type ResponseKind int

const (
	ResponseFrequencyHz ResponseKind = iota
	ResponseMode
	ResponseTxPower
	ResponseAck
)

// Response is a parsed reply from the FT-991A.
type Response struct {
	Kind        ResponseKind
	FrequencyHz uint64
	ModeName    string
	Watts       uint32
}

func modeCodeForName(name string) (string, bool) {
	for _, entry := range ModeTable {
		if entry.Name == name {
			return entry.Code, true
		}
	}
	return "", false
}

func modeNameForCode(code string) (string, bool) {
	for _, entry := range ModeTable {
		if entry.Code == code {
			return entry.Name, true
		}
	}
	return "", false
}
