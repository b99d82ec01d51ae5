package domain

import "time"

// Domain contains core models shared across the digest pipeline.

// JST is the fixed local offset used for target dates, publish times and the digest header.
var JST = time.FixedZone("JST", 9*60*60)

// UnknownPublished marks articles whose feed entry carried no usable timestamp.
const UnknownPublished = "不明"

// Article is a filtered, normalized feed entry ready for rendering.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Category  string `json:"category"`
	Language  string `json:"language"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

// FetchError records a feed that could not be fetched or parsed.
type FetchError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}
