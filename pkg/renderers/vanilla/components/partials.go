package components

// Partial keys a theme manifest can override through its Templates map.
const (
	PartialSelect = "widgets.select"
	PartialRadio  = "widgets.radio"
	PartialRow    = "tagger.row"
	PartialPage   = "tagger.page"
	PartialHome   = "tagger.home"
)
