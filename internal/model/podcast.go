package model

// Segment is one speaker turn in a podcast script. The prompt contract asks
// for 8-16 segments alternating speakers A and B; this layer does not enforce
// that mechanically.
type Segment struct {
	Speaker  string `json:"spk"`
	Voice    string `json:"voice,omitempty"`
	Markdown string `json:"md"`
}

// PodcastScript is the structured script handed to the audio renderer.
type PodcastScript struct {
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Segments []Segment `json:"segments"`
}
