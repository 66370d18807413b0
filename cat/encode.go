package cat

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Encode translates a Command into the exact FT-991A wire string,
// including its trailing ";" terminator. Pure: no I/O, no side effects.
func Encode(cmd Command) string {
	switch cmd.Kind {
	case GetFrequencyA:
		return "FA;"
	case SetFrequencyA:
		return fmt.Sprintf("FA%011d;", cmd.FrequencyHz)
	case GetMode:
		return "MD0;"
	case SetMode:
		code, ok := modeCodeForName(cmd.ModeName)
		if !ok {
			log.Warn("cat: unknown mode, falling back to DATA-USB", "mode", cmd.ModeName)
			code = "C"
		}
		return fmt.Sprintf("MD0%s;", code)
	case PttOff:
		return "TX0;"
	case PttOn:
		return "TX1;"
	case GetTxPower:
		return "PC;"
	case SetTxPower:
		return fmt.Sprintf("PC%03d;", cmd.Watts)
	default:
		log.Warn("cat: encoding unknown command kind", "kind", cmd.Kind)
		return ";"
	}
}
