package ad559x

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

var (
	ErrOverrideLength = errors.New("ad559x: channel mode override must have exactly 8 characters")
	ErrInvalidMode    = errors.New("ad559x: invalid channel mode")
	ErrModeConversion = errors.New("ad559x: channel mode conversion failed")
)

// OverrideError describes why a channel mode override was discarded.
// Index and Char identify the offending character (Index is -1 for length errors).
type OverrideError struct {
	Kind  error
	Index int
	Char  byte
	Err   error
}

func (e *OverrideError) Error() string {
	switch {
	case e.Index < 0:
		return e.Kind.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %q at index %d: %v", e.Kind, e.Char, e.Index, e.Err)
	default:
		return fmt.Sprintf("%s: %q at index %d", e.Kind, e.Char, e.Index)
	}
}

func (e *OverrideError) Unwrap() error {
	return e.Kind
}

// IsNotProvided reports whether err stands for an empty override string.
func IsNotProvided(err error, raw string) bool {
	return raw == "" && errors.Is(err, ErrOverrideLength)
}

// ParseModeOverride decodes an 8-character override such as "00002222".
//
// The string reads from the highest channel down: the first character is the
// mode of channel 7 and the last character the mode of channel 0. Only the
// characters 0, 1, 2, 3 and 8 are accepted. Nothing is decoded unless every
// character is valid.
func ParseModeOverride(raw string) (Modes, error) {
	var modes Modes
	if len(raw) != NumChannels {
		return modes, &OverrideError{Kind: ErrOverrideLength, Index: -1}
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '0', '1', '2', '3', '8':
		default:
			return modes, &OverrideError{Kind: ErrInvalidMode, Index: i, Char: raw[i]}
		}
	}
	var decoded Modes
	for i := 0; i < len(raw); i++ {
		val, err := strconv.ParseUint(raw[i:i+1], 10, 8)
		if err != nil {
			return modes, &OverrideError{Kind: ErrModeConversion, Index: i, Char: raw[i], Err: err}
		}
		decoded[NumChannels-1-i] = ChannelMode(val)
	}
	return decoded, nil
}

// ApplyModeOverride parses raw and hands the decoded modes to apply exactly once.
// On failure apply is not called, a diagnostic is logged and the error is returned
// so the caller can inspect it; the caller is expected to carry on with its defaults.
func ApplyModeOverride(raw string, apply func(Modes)) error {
	modes, err := ParseModeOverride(raw)
	if err != nil {
		if IsNotProvided(err, raw) {
			slog.Debug("no channel mode override provided")
			return err
		}
		var oerr *OverrideError
		if errors.As(err, &oerr) && oerr.Index >= 0 {
			slog.Error("channel mode override ignored", "index", oerr.Index, "char", string(oerr.Char), "error", err)
		} else {
			slog.Warn("channel mode override ignored", "length", len(raw), "error", err)
		}
		return err
	}
	slog.Info("applying channel mode override", "override", raw, "modes", modes)
	apply(modes)
	return nil
}
