package memstore

import "errors"

var (
	errNoSuchRoom              = errors.New("memstore: no such room")
	errNoSuchSensor            = errors.New("memstore: no such temp sensor")
	errRoomHasPlugs            = errors.New("memstore: room still has plugs assigned")
	errOverlappingSchedule     = errors.New("memstore: schedule overlaps an existing schedule for a shared room")
	errDuplicateTemperatureLog = errors.New("memstore: temperature log already recorded for this room and time")
)
