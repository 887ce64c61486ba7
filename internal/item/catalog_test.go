package item

import "testing"

func TestCatalogShape(t *testing.T) {
	ids := FertilizerIDs()
	if len(ids) != 8 {
		t.Fatalf("expected 8 fertilizer ids, got %d", len(ids))
	}
	perAffinity := map[Affinity]map[int64]bool{}
	for _, id := range ids {
		f, ok := FertilizerInfo(id)
		if !ok {
			t.Fatalf("FertilizerInfo(%d) missing", id)
		}
		if perAffinity[f.Affinity] == nil {
			perAffinity[f.Affinity] = map[int64]bool{}
		}
		perAffinity[f.Affinity][f.Hours] = true
	}
	for _, aff := range []Affinity{AffinityNormal, AffinityOrganic} {
		for _, h := range []int64{1, 4, 8, 12} {
			if !perAffinity[aff][h] {
				t.Fatalf("missing %s %dh fertilizer", aff, h)
			}
		}
	}
}

func TestPacksIn(t *testing.T) {
	bag := Bag{
		{ItemID: CouponID, Count: 120},
		{ItemID: PackFertilizerID, Count: 3},
		{ItemID: PackOrganicID, Count: 0},
		{ItemID: FertilizerNormal4H, Count: 7},
	}
	packs := PacksIn(bag)
	if len(packs) != 1 || packs[0].ItemID != PackFertilizerID || packs[0].Count != 3 {
		t.Fatalf("unexpected packs: %+v", packs)
	}
	if bag.CouponBalance() != 120 {
		t.Fatalf("coupon balance = %d, want 120", bag.CouponBalance())
	}
}

func TestBagCountMergesStacks(t *testing.T) {
	bag := Bag{
		{ItemID: FertilizerNormal1H, Count: 2},
		{ItemID: FertilizerNormal1H, Count: 5},
	}
	if got := bag.Count(FertilizerNormal1H); got != 7 {
		t.Fatalf("Count = %d, want 7", got)
	}
}
