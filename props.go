package cascade

import "fmt"

// Channel is one animatable presentation property.
type Channel uint8

const (
	ChannelOpacity  Channel = iota // 0 transparent, 1 opaque
	ChannelX                       // horizontal offset in pixels
	ChannelY                       // vertical offset in pixels
	ChannelScale                   // uniform scale factor
	ChannelRotation                // rotation in degrees

	numChannels
)

var channelNames = [numChannels]string{"opacity", "x", "y", "scale", "rotate"}

func (c Channel) String() string {
	if c < numChannels {
		return channelNames[c]
	}
	return fmt.Sprintf("Channel(%d)", c)
}

// ParseChannel maps a property name ("opacity", "x", "y", "scale", "rotate")
// to its Channel.
func ParseChannel(s string) (Channel, error) {
	for i, name := range channelNames {
		if name == s {
			return Channel(i), nil
		}
	}
	if s == "rotation" {
		return ChannelRotation, nil
	}
	return 0, fmt.Errorf("unknown property %q", s)
}

// Presentation is the interpolated state the rendering collaborator paints.
type Presentation struct {
	Opacity  float64
	X, Y     float64
	Scale    float64
	Rotation float64
}

// DefaultPresentation is the state of a node before any variant is applied.
var DefaultPresentation = Presentation{Opacity: 1, Scale: 1}

// Get returns the value of a single channel.
func (p Presentation) Get(c Channel) float64 {
	switch c {
	case ChannelOpacity:
		return p.Opacity
	case ChannelX:
		return p.X
	case ChannelY:
		return p.Y
	case ChannelScale:
		return p.Scale
	case ChannelRotation:
		return p.Rotation
	}
	return 0
}

// set writes a single channel.
func (p *Presentation) set(c Channel, v float64) {
	switch c {
	case ChannelOpacity:
		p.Opacity = v
	case ChannelX:
		p.X = v
	case ChannelY:
		p.Y = v
	case ChannelScale:
		p.Scale = v
	case ChannelRotation:
		p.Rotation = v
	}
}

// Props is an immutable set of channel targets. A channel is either unset, a
// single target value or a keyframe sequence. The zero value sets nothing.
type Props struct {
	frames [numChannels][]float64
}

// With returns a copy of p with channel c targeting v.
func (p Props) With(c Channel, v float64) Props {
	return p.WithKeyframes(c, v)
}

// WithKeyframes returns a copy of p with channel c animating through vals.
// The first keyframe is replaced by the node's current value when the
// transition starts, so an interrupted node never jumps. An empty vals
// clears the channel.
func (p Props) WithKeyframes(c Channel, vals ...float64) Props {
	if c >= numChannels {
		panic(fmt.Sprintf("cascade: invalid channel %d", c))
	}
	if len(vals) == 0 {
		p.frames[c] = nil
		return p
	}
	p.frames[c] = append([]float64(nil), vals...)
	return p
}

// WithOpacity returns a copy of p targeting opacity v.
func (p Props) WithOpacity(v float64) Props { return p.With(ChannelOpacity, v) }

// WithX returns a copy of p targeting horizontal offset v.
func (p Props) WithX(v float64) Props { return p.With(ChannelX, v) }

// WithY returns a copy of p targeting vertical offset v.
func (p Props) WithY(v float64) Props { return p.With(ChannelY, v) }

// WithScale returns a copy of p targeting scale v.
func (p Props) WithScale(v float64) Props { return p.With(ChannelScale, v) }

// WithRotation returns a copy of p targeting rotation v (degrees).
func (p Props) WithRotation(v float64) Props { return p.With(ChannelRotation, v) }

// Has reports whether channel c is set.
func (p Props) Has(c Channel) bool {
	return c < numChannels && len(p.frames[c]) > 0
}

// Target returns the final value of channel c and whether it is set.
func (p Props) Target(c Channel) (float64, bool) {
	if !p.Has(c) {
		return 0, false
	}
	f := p.frames[c]
	return f[len(f)-1], true
}

// Keyframes returns a copy of the keyframes of channel c.
func (p Props) Keyframes(c Channel) []float64 {
	if !p.Has(c) {
		return nil
	}
	return append([]float64(nil), p.frames[c]...)
}

// fill returns p with every channel it leaves unset taken from lower.
func (p Props) fill(lower Props) Props {
	for c := range numChannels {
		if len(p.frames[c]) == 0 {
			p.frames[c] = lower.frames[c]
		}
	}
	return p
}

// Empty reports whether no channel is set.
func (p Props) Empty() bool {
	for c := range numChannels {
		if len(p.frames[c]) > 0 {
			return false
		}
	}
	return true
}

// Apply returns base with every set channel replaced by its final target.
func (p Props) Apply(base Presentation) Presentation {
	for c := range numChannels {
		if v, ok := p.Target(c); ok {
			base.set(c, v)
		}
	}
	return base
}
