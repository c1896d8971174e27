package parts

import "github.com/OpenTraceLab/ucfgen/pkg/model"

// PassThrough maps a pin of a relaying part to the pin on the other side of
// it. ok is false when the pin relays nothing.
type PassThrough func(pin model.PinID) (other model.PinID, ok bool, err error)

// Pairs relays each numbered pin to its partner. Any other pin is unknown
// to the part.
func Pairs(part string, pairs ...[2]int) PassThrough {
	table := make(map[int]int, 2*len(pairs))
	for _, p := range pairs {
		table[p[0]] = p[1]
		table[p[1]] = p[0]
	}
	return func(pin model.PinID) (model.PinID, bool, error) {
		n, numeric := pin.Number()
		if !numeric {
			return model.PinID{}, false, &model.UnknownPinError{Part: part, Pin: pin}
		}
		other, ok := table[n]
		if !ok {
			return model.PinID{}, false, &model.UnknownPinError{Part: part, Pin: pin}
		}
		return model.NumPin(other), true, nil
	}
}

// Crossbar models an analog switch of bodyPins pins whose window
// [lo, hi] is mirrored onto itself: pin p relays to lo+hi-p. Pins of the
// body outside the window relay nothing.
func Crossbar(part string, bodyPins, lo, hi int) PassThrough {
	return func(pin model.PinID) (model.PinID, bool, error) {
		n, numeric := pin.Number()
		if !numeric || n < 1 || n > bodyPins {
			return model.PinID{}, false, &model.UnknownPinError{Part: part, Pin: pin}
		}
		if n < lo || n > hi {
			return model.PinID{}, false, nil
		}
		return model.NumPin(lo + hi - n), true, nil
	}
}

func builtinPassThrough() map[string]Handler {
	twoTerminal := func(name string, resistive bool) Handler {
		return Handler{PassThrough: Pairs(name, [2]int{1, 2}), Resistive: resistive}
	}
	return map[string]Handler{
		"R":       twoTerminal("R", true),
		"C":       twoTerminal("C", false),
		"SW_PUSH": twoTerminal("SW_PUSH", false),
		"RES_NET4": {
			PassThrough: Pairs("RES_NET4", [2]int{1, 2}, [2]int{3, 4}, [2]int{5, 6}, [2]int{7, 8}),
			Resistive:   true,
		},
		// HDMI protection array: 38-pin body, pins 16..23 pass straight across.
		"IP4776CZ38": {PassThrough: Crossbar("IP4776CZ38", 38, 16, 23)},
	}
}
