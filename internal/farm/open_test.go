package farm

import (
	"context"
	"testing"

	"farm-keeper/internal/config"
	"farm-keeper/internal/item"
	"farm-keeper/internal/protocol"
)

func TestOpenPacksBatchesPerIdentifier(t *testing.T) {
	bag := item.Bag{
		{ItemID: item.PackFertilizerID, Count: 4},
		{ItemID: item.PackOrganicID, Count: 2},
		{ItemID: item.FertilizerNormal1H, Count: 99},
	}
	fc := &fakeClient{}
	k := New(config.FarmConfig{OpenEnabled: true}, fc, nil)

	if got := k.openPacks(context.Background(), bag); got != 6 {
		t.Fatalf("opened = %d, want 6", got)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("one batched call per pack id, got %v", fc.ops())
	}
	if fc.calls[0] != (call{op: "use", itemID: item.PackFertilizerID, count: 4}) {
		t.Fatalf("first call = %+v", fc.calls[0])
	}
	if st := k.Status(); st.PacksOpenedToday != 6 {
		t.Fatalf("counter = %d, want 6", st.PacksOpenedToday)
	}
}

func TestOpenPacksClampsToDailyAllowance(t *testing.T) {
	bag := item.Bag{
		{ItemID: item.PackFertilizerID, Count: 10},
		{ItemID: item.PackOrganicID, Count: 10},
	}
	fc := &fakeClient{}
	k := New(config.FarmConfig{OpenEnabled: true, DailyOpenMax: 7}, fc, nil)

	if got := k.openPacks(context.Background(), bag); got != 7 {
		t.Fatalf("opened = %d, want 7", got)
	}
	// The second id sees an exhausted allowance and is skipped entirely.
	if len(fc.calls) != 1 || fc.calls[0].count != 7 {
		t.Fatalf("calls: %+v", fc.calls)
	}
}

func TestOpenPacksFailureContinues(t *testing.T) {
	bag := item.Bag{
		{ItemID: item.PackFertilizerID, Count: 3},
		{ItemID: item.PackOrganicID, Count: 5},
	}
	fc := &fakeClient{
		useErr: map[int64]error{
			item.PackFertilizerID: &protocol.Error{Kind: protocol.KindOther, Message: "boom"},
		},
	}
	k := New(config.FarmConfig{OpenEnabled: true}, fc, nil)

	if got := k.openPacks(context.Background(), bag); got != 5 {
		t.Fatalf("opened = %d, want 5 from the surviving id", got)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("both ids must be attempted: %v", fc.ops())
	}
}
