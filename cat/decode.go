package cat

import (
	"strconv"
	"strings"

	"github.com/nerdenator/psk31-client-workspace/domain"
)

// Decode translates a raw response string (with any command echo already
// stripped) into a typed Response. cmd is the command that was sent; the
// FT-991A reuses the same reply shape for some queries and acks, so the
// context is needed to pick the right parser. Pure: no I/O, no side
// effects.
func Decode(response string, cmd Command) (Response, error) {
	if strings.TrimSuffix(response, ";") == "?" || response == "?" {
		return Response{}, domain.NewError(domain.KindCat, "radio NAK for command %s: response was '?'", cmd)
	}

	switch cmd.Kind {
	case GetFrequencyA:
		return parseFrequency(response)
	case SetFrequencyA:
		return expectAck(response, cmd)
	case GetMode:
		return parseMode(response)
	case SetMode:
		return expectAck(response, cmd)
	case PttOn, PttOff:
		return expectAck(response, cmd)
	case GetTxPower:
		return parseTxPower(response)
	case SetTxPower:
		return expectAck(response, cmd)
	default:
		return Response{}, domain.NewError(domain.KindCat, "decode: unknown command kind for %s", cmd)
	}
}

func parseFrequency(response string) (Response, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(response), ";")
	if !strings.HasPrefix(trimmed, "FA") || len(trimmed) < 13 {
		return Response{}, domain.NewError(domain.KindCat, "invalid frequency response: %q", response)
	}
	digits := trimmed[2:13]
	hz, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Response{}, domain.Wrap(domain.KindCat, "failed to parse frequency '"+digits+"'", err)
	}
	return Response{Kind: ResponseFrequencyHz, FrequencyHz: hz}, nil
}

func parseMode(response string) (Response, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(response), ";")
	if !strings.HasPrefix(trimmed, "MD0") || len(trimmed) < 4 {
		return Response{}, domain.NewError(domain.KindCat, "invalid mode response: %q", response)
	}
	code := trimmed[3:4]
	name, ok := modeNameForCode(code)
	if !ok {
		return Response{}, domain.NewError(domain.KindCat, "unknown mode code: %q", code)
	}
	return Response{Kind: ResponseMode, ModeName: name}, nil
}

func parseTxPower(response string) (Response, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(response), ";")
	if !strings.HasPrefix(trimmed, "PC") || len(trimmed) < 5 {
		return Response{}, domain.NewError(domain.KindCat, "invalid TX power response: %q", response)
	}
	digits := trimmed[2:5]
	watts, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return Response{}, domain.Wrap(domain.KindCat, "failed to parse TX power '"+digits+"'", err)
	}
	return Response{Kind: ResponseTxPower, Watts: uint32(watts)}, nil
}

// expectAck handles commands where the radio only ever returns ";" (or an
// effectively empty string once trimmed).
func expectAck(response string, cmd Command) (Response, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == ";" || trimmed == "" {
		return Response{Kind: ResponseAck}, nil
	}
	return Response{}, domain.NewError(domain.KindCat, "expected ack (';') for %s, got: %q", cmd, response)
}
