package farm

import (
	"math"

	"farm-keeper/internal/item"
)

const (
	// capacityHours is the server-enforced ceiling per container. Local
	// bookkeeping is only an estimate to avoid redundant failing calls;
	// the server remains authoritative.
	capacityHours = 990.0

	secondsPerHour = 3600
)

// ContainerFill converts the raw container quantity in the snapshot
// (seconds) into capacity-hours for the given affinity.
func ContainerFill(bag item.Bag, aff item.Affinity) float64 {
	return float64(bag.Count(item.ContainerItem(aff))) / secondsPerHour
}

// containerModel tracks the in-run fill estimate so repeated spends within
// one cycle don't over-commit before the next real inventory fetch.
type containerModel struct {
	fill map[item.Affinity]float64
}

func (m *containerModel) seed(bag item.Bag) {
	m.fill = map[item.Affinity]float64{
		item.AffinityNormal:  ContainerFill(bag, item.AffinityNormal),
		item.AffinityOrganic: ContainerFill(bag, item.AffinityOrganic),
	}
}

func (m *containerModel) headroom(aff item.Affinity) float64 {
	h := capacityHours - m.fill[aff]
	if h < 0 {
		return 0
	}
	return h
}

func (m *containerModel) atCapacity(aff item.Affinity) bool {
	return m.fill[aff] >= capacityHours
}

// maxUnitsFittable returns how many units of hoursPer each still fit.
// Non-positive hoursPer means the unit consumes no capacity; unbounded.
func (m *containerModel) maxUnitsFittable(aff item.Affinity, hoursPer int64) int64 {
	if hoursPer <= 0 {
		return math.MaxInt64
	}
	return int64(math.Floor(m.headroom(aff) / float64(hoursPer)))
}

func (m *containerModel) applyFill(aff item.Affinity, units, hoursPer int64) {
	m.fill[aff] += float64(units * hoursPer)
	if m.fill[aff] > capacityHours {
		m.fill[aff] = capacityHours
	}
}

// markFull pins the estimate to the ceiling after the server reported a
// full container, so later allocations of the same affinity are skipped
// without another failing round-trip.
func (m *containerModel) markFull(aff item.Affinity) {
	m.fill[aff] = capacityHours
}
