package cascade

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// track is the data form of one transition: where it starts, the keyframe
// path of every animated channel and the eased clock that maps elapsed time
// to progress. Sampling is a pure function of time, so a track can be
// evaluated at any instant and replayed by feeding it a different time.
type track struct {
	variant string
	spec    Transition
	startAt float64
	from    Presentation
	paths   [numChannels][]float64 // nil when the channel is not animated
	clock   *gween.Tween           // 0 → 1 over one iteration, nil for zero duration
}

// newTrack builds a track from the current presentation toward props. The
// first keyframe of every channel is replaced by the current value.
func newTrack(variant string, props Props, spec Transition, fn ease.TweenFunc, from Presentation, startAt float64) track {
	tr := track{variant: variant, spec: spec, startAt: startAt, from: from}
	for c := range numChannels {
		frames := props.frames[c]
		if len(frames) == 0 {
			continue
		}
		path := make([]float64, 0, len(frames)+1)
		path = append(path, from.Get(c))
		if len(frames) == 1 {
			path = append(path, frames[0])
		} else {
			path = append(path, frames[1:]...)
		}
		tr.paths[c] = path
	}
	if spec.duration > 0 {
		tr.clock = gween.New(0, 1, float32(spec.duration), fn)
	}
	return tr
}

// sample returns the presentation at time now and whether the track has
// finished. Before startAt the origin is returned.
func (tr *track) sample(now float64) (Presentation, bool) {
	elapsed := now - tr.startAt
	if elapsed < 0 {
		return tr.from, false
	}
	if tr.clock == nil {
		return tr.at(1), true
	}
	d := tr.spec.duration
	if !tr.spec.infinite() && elapsed >= tr.spec.total() {
		return tr.at(tr.finalProgress()), true
	}
	iter := math.Floor(elapsed / d)
	local := elapsed - iter*d
	if tr.spec.repeatMode == RepeatReverse && int64(iter)%2 == 1 {
		local = d - local
	}
	p, _ := tr.clock.Set(float32(local))
	return tr.at(float64(p)), false
}

// finalProgress is 1 unless a reversing transition ends on a backward
// iteration.
func (tr *track) finalProgress() float64 {
	if tr.spec.repeatMode == RepeatReverse && tr.spec.iterations()%2 == 0 {
		return 0
	}
	return 1
}

// at interpolates every animated channel at eased progress p. Progress
// outside [0, 1] (back and elastic easings) extrapolates the end segments.
func (tr *track) at(p float64) Presentation {
	out := tr.from
	for c := range numChannels {
		path := tr.paths[c]
		if path == nil {
			continue
		}
		segs := len(path) - 1
		pos := p * float64(segs)
		i := int(math.Floor(pos))
		if i < 0 {
			i = 0
		} else if i >= segs {
			i = segs - 1
		}
		frac := pos - float64(i)
		// Exact endpoints keep completed nodes on their targets.
		v := path[i] + (path[i+1]-path[i])*frac
		if p == 1 {
			v = path[segs]
		} else if p == 0 {
			v = path[0]
		}
		out.set(c, v)
	}
	return out
}
