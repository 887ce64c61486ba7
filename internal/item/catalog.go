package item

import "sort"

// Affinity names the container a fertilizer feeds.
type Affinity string

const (
	AffinityNormal  Affinity = "normal"
	AffinityOrganic Affinity = "organic"
)

// Well-known item ids. The low digits of fertilizer ids encode the
// hours-per-unit the server grants, which keeps the table readable; the
// server is still the source of truth.
const (
	CouponID int64 = 10001

	ContainerNormalID  int64 = 30100
	ContainerOrganicID int64 = 30200

	FertilizerNormal1H   int64 = 30101
	FertilizerNormal4H   int64 = 30104
	FertilizerNormal8H   int64 = 30108
	FertilizerNormal12H  int64 = 30112
	FertilizerOrganic1H  int64 = 30201
	FertilizerOrganic4H  int64 = 30204
	FertilizerOrganic8H  int64 = 30208
	FertilizerOrganic12H int64 = 30212

	PackFertilizerID int64 = 30301
	PackOrganicID    int64 = 30302
)

// Fertilizer describes one consumable: which container it feeds and how
// many capacity-hours a single unit grants.
type Fertilizer struct {
	Affinity Affinity
	Hours    int64
}

var fertilizers = map[int64]Fertilizer{
	FertilizerNormal1H:   {AffinityNormal, 1},
	FertilizerNormal4H:   {AffinityNormal, 4},
	FertilizerNormal8H:   {AffinityNormal, 8},
	FertilizerNormal12H:  {AffinityNormal, 12},
	FertilizerOrganic1H:  {AffinityOrganic, 1},
	FertilizerOrganic4H:  {AffinityOrganic, 4},
	FertilizerOrganic8H:  {AffinityOrganic, 8},
	FertilizerOrganic12H: {AffinityOrganic, 12},
}

var packNames = map[int64]string{
	PackFertilizerID: "Fertilizer Pack",
	PackOrganicID:    "Organic Fertilizer Pack",
}

var containerByAffinity = map[Affinity]int64{
	AffinityNormal:  ContainerNormalID,
	AffinityOrganic: ContainerOrganicID,
}

func IsPack(id int64) bool {
	_, ok := packNames[id]
	return ok
}

func PackName(id int64) (string, bool) {
	name, ok := packNames[id]
	return name, ok
}

func FertilizerInfo(id int64) (Fertilizer, bool) {
	f, ok := fertilizers[id]
	return f, ok
}

// FertilizerIDs returns all known fertilizer ids in ascending order.
func FertilizerIDs() []int64 {
	out := make([]int64, 0, len(fertilizers))
	for id := range fertilizers {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ContainerItem(aff Affinity) int64 {
	return containerByAffinity[aff]
}
