package submission

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-tagger/pkg/form"
)

// Tag is one row of a submission: the verb and the chosen value for each of
// its placeholder occurrences, keyed "<placeholder>-<n>".
type Tag struct {
	Verb    string            `json:"verb"`
	Options map[string]string `json:"options"`
}

// Data is the payload stored for one card.
type Data struct {
	ID   string `json:"id"`
	Tags []Tag  `json:"tags"`
}

// Record is one line of the submission log.
type Record struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Data      Data   `json:"data"`
}

// Assemble regroups the flat field values of a form into one Tag per row,
// in row order. Fields are assigned to rows by the row id carried in their
// field id.
func Assemble(rows []form.Row) []Tag {
	byRow := make(map[uuid.UUID]map[string]string, len(rows))
	for _, row := range rows {
		for _, field := range row.Fields {
			options, ok := byRow[field.ID.Row]
			if !ok {
				options = make(map[string]string)
				byRow[field.ID.Row] = options
			}
			options[field.ID.Key()] = field.Value
		}
	}

	tags := make([]Tag, 0, len(rows))
	for _, row := range rows {
		options := byRow[row.ID]
		if options == nil {
			options = map[string]string{}
		}
		tags = append(tags, Tag{Verb: row.Verb, Options: options})
	}
	return tags
}
