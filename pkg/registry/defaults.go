package registry

// DefaultVerbs returns the built-in verb templates.
func DefaultVerbs() []Verb {
	return []Verb{
		{Name: "search", Pattern: "{actor} searches {location} for {multiple} {card_types} and adds them to {location}"},
		{Name: "discard", Pattern: "{actor} discards {card_types} {multiple} from {location}"},
	}
}

// DefaultPlaceholders returns the built-in placeholder specs.
func DefaultPlaceholders() []Placeholder {
	return []Placeholder{
		{Name: "actor", Widget: WidgetSelect, Options: values("you", "opponent")},
		{Name: "location", Widget: WidgetSelect, Options: values("deck", "discard-pile", "hand", "prizes", "lost-zone", "in-play")},
		{Name: "multiple", Widget: WidgetRadio, Options: values("single", "multiple")},
		{Name: "card_types", Widget: WidgetSelect, Options: values("card", "pokemon")},
	}
}

// values builds unlabelled options; labels are derived when the registry is
// constructed.
func values(in ...string) []Option {
	out := make([]Option, 0, len(in))
	for _, value := range in {
		out = append(out, Option{Value: value})
	}
	return out
}
