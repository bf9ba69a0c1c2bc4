package resolver

import (
	"context"
	"math"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
)

// far is the distance given to corner pairs outside the search arc.
const far = 1_000_000

// tieTolerance is how close two distances must be to count as equal.
const tieTolerance = 2

type direction struct {
	name   string
	strict bool
}

func parseDirection(s string) direction {
	s = strings.ToLower(strings.TrimSpace(s))
	name, strict := strings.CutSuffix(s, "!")
	if name == "" {
		name = "closest"
	}
	return direction{name: name, strict: strict}
}

// inArc reports whether the angle from a to b, in degrees with y pointing down,
// lies in the sector of d.
func (d direction) inArc(a, b entity.Point) bool {
	if d.name == "closest" {
		return true
	}
	angle := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	switch d.name {
	case "down":
		return 5 < angle && angle < 175
	case "up":
		return -175 < angle && angle < -5
	case "left":
		return math.Abs(angle) > 95
	case "right":
		return -85 < angle && angle < 85
	}
	return true
}

// distance is the shortest Manhattan distance between the corners of the two boxes.
// Touching corners are ignored, and pairs outside the arc count as far.
func distance(anchor, cand entity.Rect, d direction) float64 {
	best := float64(far)
	for _, a := range anchor.Corners() {
		for _, c := range cand.Corners() {
			dist := entity.Manhattan(a, c)
			if !d.inArc(a, c) {
				dist = far
			}
			if dist > 0 && dist < best {
				best = dist
			}
		}
	}
	return best
}

func orthoDistance(a, b entity.Rect) float64 {
	ca, cb := a.Center(), b.Center()
	return min(math.Abs(ca.X-cb.X), math.Abs(ca.Y-cb.Y))
}

// closestIndex picks the candidate nearest to anchor. An overlapping candidate wins
// outright; near ties go to the candidate best aligned on one axis. In strict mode
// candidates entirely outside the arc are never chosen.
func closestIndex(anchor entity.Rect, cands []entity.Rect, d direction) (int, bool) {
	var tied []int
	best := float64(far)
	for i, c := range cands {
		if anchor.Overlaps(c) {
			return i, true
		}
		dist := distance(anchor, c, d)
		if d.strict && dist >= far {
			continue
		}
		switch {
		case math.Abs(dist-best) < tieTolerance:
			tied = append(tied, i)
			best = dist
		case dist < best:
			best = dist
			tied = []int{i}
		}
	}
	if len(tied) == 0 {
		return 0, false
	}
	pick := tied[0]
	if len(tied) > 1 {
		bestOrtho := math.Inf(1)
		for _, i := range tied {
			if o := orthoDistance(anchor, cands[i]); o < bestOrtho {
				bestOrtho = o
				pick = i
			}
		}
	}
	return pick, true
}

// Closest returns the candidate nearest to ref in the configured search direction.
func (r *Resolver) Closest(ctx context.Context, ref output.Element, cands []output.Element) (output.Element, error) {
	if len(cands) == 0 {
		return nil, failure.NotFound("No elements visible")
	}
	flags, err := r.probes.Inspect(ctx, append([]output.Element{ref}, cands...))
	if err != nil {
		return nil, visibilityError(err)
	}
	rects := make([]entity.Rect, len(cands))
	for i := range cands {
		rects[i] = flags[i+1].Rect
	}
	dir := parseDirection(r.cfg.String(config.SearchDirection))
	i, ok := closestIndex(flags[0].Rect, rects, dir)
	if !ok {
		return nil, failure.NotFound("No element found in direction %s", dir.name)
	}
	r.logger.Debug("Closest element chosen", "index", i, "candidates", len(cands), "direction", dir.name)
	return cands[i], nil
}
