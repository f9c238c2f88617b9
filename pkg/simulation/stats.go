package simulation

import "time"

// statsWindow is the smoothing window, in frames, of the rolling averages.
const statsWindow = 60

// Stats holds per-frame timings smoothed over about a second at 60 fps.
type Stats struct {
	Frames   uint64
	Parallel time.Duration // snapshot, index build and force phase
	Commit   time.Duration
	Last     time.Duration // unsmoothed duration of the last frame
}

// Total is the smoothed frame time.
func (s Stats) Total() time.Duration { return s.Parallel + s.Commit }

// MaxFPS is the frame rate the update alone would allow.
func (s Stats) MaxFPS() float64 {
	if s.Total() <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Total())
}

func (s *Stats) record(parallel, commit time.Duration) {
	if s.Frames == 0 {
		s.Parallel, s.Commit = parallel, commit
	} else {
		s.Parallel = smooth(s.Parallel, parallel)
		s.Commit = smooth(s.Commit, commit)
	}
	s.Last = parallel + commit
	s.Frames++
}

func smooth(avg, sample time.Duration) time.Duration {
	return (sample + avg*(statsWindow-1)) / statsWindow
}
