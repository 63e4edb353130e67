package form

import "github.com/google/uuid"

// Op names a structural change to the row list.
type Op string

const (
	OpRowAdded       Op = "row_added"
	OpRowRemoved     Op = "row_removed"
	OpFieldsReplaced Op = "fields_replaced"
)

// Delta is the minimal patch a UI layer applies to its rendered row list.
// Index is the row position the change applies to: the new position for
// additions, the former position for removals.
type Delta struct {
	Op    Op        `json:"op"`
	Row   uuid.UUID `json:"row"`
	Index int       `json:"index"`
}
