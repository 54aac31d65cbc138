// Package focus holds the single shared value describing where the viewer
// should navigate and what it should highlight. The citation producer writes
// it, the page component observes it; neither knows about the other.
package focus

// ColorTag selects the highlight color painted for a citation. Colors are
// assigned per citation index from a fixed palette so answer chips and page
// overlays stay in sync.
type ColorTag int

const (
	ColorYellow ColorTag = iota
	ColorGreen
	ColorBlue
	ColorPink
	ColorOrange
)

// PaletteColor maps a citation's position within an answer to its color.
func PaletteColor(index int) ColorTag {
	if index < 0 {
		index = 0
	}
	return ColorTag(index % 5)
}

// Citation is the immutable payload accompanying an answer: a quoted snippet
// and where the retrieval layer believes it lives.
type Citation struct {
	DocumentID   string
	DocumentName string
	PageNumber   int
	SectionRef   string
	Snippet      string
	Color        ColorTag
}

// State is the current navigation/highlight intent. Citation is nil for a
// plain page jump. Every Set replaces the value wholesale; no merging.
type State struct {
	DocumentID string
	PageNumber int
	Citation   *Citation
}

// Store is an observable last-write-wins cell. It keeps no history: a new
// value supersedes any in-flight work tied to the previous one, which
// detects this through the generation counter.
//
// The store is confined to the program's update loop and is not safe for
// concurrent use.
type Store struct {
	state     State
	gen       uint64
	listeners map[int]func(State)
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: map[int]func(State){}}
}

// Get returns the current state.
func (s *Store) Get() State {
	return s.state
}

// Generation identifies the current intent. An attempt captures it at start
// and compares before every resumed step; a mismatch means the attempt is
// stale and must stop silently.
func (s *Store) Generation() uint64 {
	return s.gen
}

// Set replaces the state and notifies every subscriber with the new value.
// Setting an identical value still starts a fresh intent.
func (s *Store) Set(state State) {
	s.state = state
	s.gen++
	for _, listener := range s.listeners {
		listener(state)
	}
}

// OnChange registers a listener and returns its unsubscribe func. Listeners
// run synchronously inside Set, on the same loop.
func (s *Store) OnChange(listener func(State)) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	return func() {
		delete(s.listeners, id)
	}
}
