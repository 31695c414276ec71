package handler

import "errors"

// Sentinel errors surfaced by the handler layer itself, distinct from
// domain's persistence-invariant errors. Handlers write them directly with
// their own status code; writeStoreError also classes errNoSuchRoom and
// errOverlappingSchedule as validation errors (400).
var (
	errNotFound            = errors.New("not found")
	errNoSuchRoom          = errors.New("plug references a room that does not exist")
	errNoSuchPlug          = errors.New("button references a plug that does not exist")
	errOverlappingSchedule = errors.New("schedule overlaps an existing schedule sharing a room")
)
