package timing

// TrackRegistry assigns the default track for a new entity of the given kind.
type TrackRegistry interface {
	DefaultTrack(kind string) int
}

// StaticTracks maps entity kinds to fixed base tracks. Unknown kinds land on
// Fallback.
type StaticTracks struct {
	Bases    map[string]int
	Fallback int
}

// DefaultTracks keeps every entity kind on its own track band.
func DefaultTracks() StaticTracks {
	return StaticTracks{
		Bases: map[string]int{
			"segment":  0,
			"text":     10,
			"shape":    20,
			"image":    30,
			"gradient": 40,
			"effect":   50,
		},
		Fallback: 90,
	}
}

func (s StaticTracks) DefaultTrack(kind string) int {
	if base, ok := s.Bases[kind]; ok {
		return base
	}
	return s.Fallback
}

// TrackFunc adapts a function to TrackRegistry.
type TrackFunc func(kind string) int

func (f TrackFunc) DefaultTrack(kind string) int { return f(kind) }
