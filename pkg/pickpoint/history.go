package pickpoint

import (
	"strconv"
	"strings"
	"time"
)

// History is the state timeline of one invoice with at most one entry per
// state code. The first occurrence of a code wins and insertion order is kept.
type History struct {
	states []State
	index  map[int]int
}

// NewHistory de-duplicates states by code.
func NewHistory(states []State) History {
	h := History{
		states: make([]State, 0, len(states)),
		index:  make(map[int]int, len(states)),
	}
	for _, s := range states {
		if _, seen := h.index[s.Code]; seen {
			continue
		}
		h.index[s.Code] = len(h.states)
		h.states = append(h.states, s)
	}
	return h
}

// States returns the de-duplicated states in insertion order.
func (h History) States() []State {
	out := make([]State, len(h.states))
	copy(out, h.states)
	return out
}

// Len returns the number of distinct codes.
func (h History) Len() int {
	return len(h.states)
}

// ByCode returns the state recorded for code.
func (h History) ByCode(code int) (State, bool) {
	i, ok := h.index[code]
	if !ok {
		return State{}, false
	}
	return h.states[i], true
}

// Codes returns the distinct codes in insertion order.
func (h History) Codes() []int {
	codes := make([]int, len(h.states))
	for i, s := range h.states {
		codes[i] = s.Code
	}
	return codes
}

// Last returns the last inserted state. It is positional: the provider
// order is trusted and timestamps are not compared.
func (h History) Last() (State, bool) {
	if len(h.states) == 0 {
		return State{}, false
	}
	return h.states[len(h.states)-1], true
}

var stateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// parseStateTime understands the timestamp formats seen in tracking
// answers, including the "/Date(1558346667000+0300)/" form. Unknown input
// yields nil.
func parseStateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "/Date(") && strings.HasSuffix(s, ")/") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "/Date("), ")/")
		if len(inner) > 1 {
			if i := strings.IndexAny(inner[1:], "+-"); i >= 0 {
				inner = inner[:i+1]
			}
		}
		ms, err := strconv.ParseInt(inner, 10, 64)
		if err != nil {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	for _, layout := range stateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func stateFromWire(w WireState) State {
	msg := w.StateMessage
	if msg == "" {
		msg = w.StateText
	}
	return State{
		Code:    w.State,
		Message: msg,
		Time:    parseStateTime(w.ChangeDT),
	}
}

func statesFromWire(ws []WireState) []State {
	states := make([]State, len(ws))
	for i, w := range ws {
		states[i] = stateFromWire(w)
	}
	return states
}
