// Package action implements the pure action-resolution algorithm (spec
// §4.D): combining room minimum, active temporary actions, the matching
// schedule and the current temperature into an ON/OFF decision. Resolve has
// no side effects and no dependencies beyond internal/domain and
// internal/scheduling, which makes it the most thoroughly unit-tested
// package in the control core.
package action

import (
	"sort"
	"time"

	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/scheduling"
)

// Input bundles everything Resolve needs for one room's decision.
type Input struct {
	Now          time.Time
	Price        domain.PriceInfo
	Room         domain.Room
	CurrentTemp  *domain.TemperatureLog // nil if no reading exists for the room
	ActiveActions []domain.TempAction   // pre-filtered to this room and to "active"; any order
	Schedule     *domain.Schedule       // nil if none matches
}

// Resolve runs the short-circuit chain from spec §4.D:
//  1. no current reading -> OFF (never heat a room we cannot read)
//  2. below the room's absolute minimum -> ON
//  3. the earliest-expiring active temp action wins
//  4. the matching schedule's price-level target temperature
//  5. otherwise OFF
func Resolve(in Input) domain.Action {
	if in.CurrentTemp == nil {
		return domain.Off
	}

	if in.Room.MinTemp != nil && in.CurrentTemp.Temp < *in.Room.MinTemp {
		return domain.On
	}

	if len(in.ActiveActions) > 0 {
		earliest := earliestExpiring(in.ActiveActions)
		switch earliest.ActionType.Kind {
		case domain.ActionOff:
			return domain.Off
		case domain.ActionOn:
			if earliest.ActionType.TargetTemp == nil {
				return domain.On
			}
			if in.CurrentTemp.Temp < *earliest.ActionType.TargetTemp {
				return domain.On
			}
			return domain.Off
		}
	}

	if in.Schedule != nil {
		level := in.Price.EffectiveLevel()
		if target, ok := scheduling.TargetTemp(*in.Schedule, level); ok {
			if in.CurrentTemp.Temp < target {
				return domain.On
			}
			return domain.Off
		}
	}

	return domain.Off
}

// earliestExpiring returns the active action with the smallest ExpiresAt.
// actions must be non-empty.
func earliestExpiring(actions []domain.TempAction) domain.TempAction {
	sorted := make([]domain.TempAction, len(actions))
	copy(sorted, actions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ExpiresAt.Before(sorted[j].ExpiresAt)
	})
	return sorted[0]
}
