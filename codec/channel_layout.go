package codec

import (
	"fmt"
	"strings"
)

type ChannelPosition int

const (
	ChannelPositionUnknown = ChannelPosition(iota)
	ChannelPositionFrontLeft
	ChannelPositionFrontRight
	ChannelPositionFrontCenter
	ChannelPositionLowFrequency
	ChannelPositionBackLeft
	ChannelPositionBackRight
	ChannelPositionBackCenter
	ChannelPositionSideLeft
	ChannelPositionSideRight
	ChannelPositionFrontLeftOfCenter
	ChannelPositionFrontRightOfCenter
)

func (p ChannelPosition) String() string {
	switch p {
	case ChannelPositionUnknown:
		return "unknown"
	case ChannelPositionFrontLeft:
		return "FL"
	case ChannelPositionFrontRight:
		return "FR"
	case ChannelPositionFrontCenter:
		return "FC"
	case ChannelPositionLowFrequency:
		return "LFE"
	case ChannelPositionBackLeft:
		return "BL"
	case ChannelPositionBackRight:
		return "BR"
	case ChannelPositionBackCenter:
		return "BC"
	case ChannelPositionSideLeft:
		return "SL"
	case ChannelPositionSideRight:
		return "SR"
	case ChannelPositionFrontLeftOfCenter:
		return "FLC"
	case ChannelPositionFrontRightOfCenter:
		return "FRC"
	default:
		return fmt.Sprintf("ChannelPosition(%d)", int(p))
	}
}

// ChannelLayout lists the positions of the channels in their native order.
type ChannelLayout []ChannelPosition

// Index returns the index of the first channel at the position, or -1.
func (l ChannelLayout) Index(pos ChannelPosition) int {
	for idx, p := range l {
		if p == pos {
			return idx
		}
	}
	return -1
}

func (l ChannelLayout) String() string {
	names := make([]string, 0, len(l))
	for _, p := range l {
		names = append(names, p.String())
	}
	return strings.Join(names, "+")
}

// DefaultLayout returns the conventional layout for the amount of channels.
// Channels beyond the conventional layouts are of unknown position.
func DefaultLayout(channels int) ChannelLayout {
	var l ChannelLayout
	switch channels {
	case 0:
		return nil
	case 1:
		l = ChannelLayout{ChannelPositionFrontCenter}
	case 2:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight}
	case 3:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter}
	case 4:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter, ChannelPositionBackCenter}
	case 5:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter, ChannelPositionSideLeft, ChannelPositionSideRight}
	case 6:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter, ChannelPositionLowFrequency, ChannelPositionSideLeft, ChannelPositionSideRight}
	case 7:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter, ChannelPositionLowFrequency, ChannelPositionBackCenter, ChannelPositionSideLeft, ChannelPositionSideRight}
	default:
		l = ChannelLayout{ChannelPositionFrontLeft, ChannelPositionFrontRight, ChannelPositionFrontCenter, ChannelPositionLowFrequency, ChannelPositionBackLeft, ChannelPositionBackRight, ChannelPositionSideLeft, ChannelPositionSideRight}
		for len(l) < channels {
			l = append(l, ChannelPositionUnknown)
		}
	}
	return l
}

var channelPositionByName = map[string]ChannelPosition{
	"FL":  ChannelPositionFrontLeft,
	"FR":  ChannelPositionFrontRight,
	"FC":  ChannelPositionFrontCenter,
	"LFE": ChannelPositionLowFrequency,
	"BL":  ChannelPositionBackLeft,
	"BR":  ChannelPositionBackRight,
	"BC":  ChannelPositionBackCenter,
	"SL":  ChannelPositionSideLeft,
	"SR":  ChannelPositionSideRight,
	"FLC": ChannelPositionFrontLeftOfCenter,
	"FRC": ChannelPositionFrontRightOfCenter,
}

// namedLayouts are the layout names used by libav, in its native order.
var namedLayouts = map[string]string{
	"mono":           "FC",
	"stereo":         "FL+FR",
	"2.1":            "FL+FR+LFE",
	"3.0":            "FL+FR+FC",
	"3.0(back)":      "FL+FR+BC",
	"4.0":            "FL+FR+FC+BC",
	"quad":           "FL+FR+BL+BR",
	"quad(side)":     "FL+FR+SL+SR",
	"3.1":            "FL+FR+FC+LFE",
	"5.0":            "FL+FR+FC+BL+BR",
	"5.0(side)":      "FL+FR+FC+SL+SR",
	"4.1":            "FL+FR+FC+LFE+BC",
	"5.1":            "FL+FR+FC+LFE+BL+BR",
	"5.1(side)":      "FL+FR+FC+LFE+SL+SR",
	"6.0":            "FL+FR+FC+BC+SL+SR",
	"6.0(front)":     "FL+FR+FLC+FRC+SL+SR",
	"hexagonal":      "FL+FR+FC+BL+BR+BC",
	"6.1":            "FL+FR+FC+LFE+BC+SL+SR",
	"6.1(back)":      "FL+FR+FC+LFE+BL+BR+BC",
	"6.1(front)":     "FL+FR+LFE+FLC+FRC+SL+SR",
	"7.0":            "FL+FR+FC+BL+BR+SL+SR",
	"7.0(front)":     "FL+FR+FC+FLC+FRC+SL+SR",
	"7.1":            "FL+FR+FC+LFE+BL+BR+SL+SR",
	"7.1(wide)":      "FL+FR+FC+LFE+BL+BR+FLC+FRC",
	"7.1(wide-side)": "FL+FR+FC+LFE+FLC+FRC+SL+SR",
}

// ParseChannelLayout parses a layout description in the libav notation:
// a layout name ("5.1(side)"), a list of channels ("FL+FR+LFE") or an
// explicit list with the amount ("3 channels (FL+FR+LFE)"). Channels with
// no known position become ChannelPositionUnknown; a description without
// positions (e.g. "2 channels") is not parsed.
func ParseChannelLayout(s string) (ChannelLayout, bool) {
	s = strings.TrimSpace(s)
	if list, ok := namedLayouts[s]; ok {
		s = list
	} else if open := strings.IndexByte(s, '('); open >= 0 && strings.HasSuffix(s, ")") {
		s = s[open+1 : len(s)-1]
	}
	if s == "" || strings.ContainsAny(s, " ()") {
		return nil, false
	}
	var l ChannelLayout
	for _, name := range strings.Split(s, "+") {
		// custom orders may label the channels: "FL@left"
		name, _, _ = strings.Cut(name, "@")
		if !isChannelName(name) {
			return nil, false
		}
		l = append(l, channelPositionByName[name])
	}
	return l, true
}

func isChannelName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
