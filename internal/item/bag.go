package item

// Stack is one (item, count) pair from an inventory snapshot.
type Stack struct {
	ItemID int64
	Count  int64
}

// Bag is an inventory snapshot as returned by the game server. It is never
// mutated in place; callers derive new values from it.
type Bag []Stack

// Count returns the total held count for one item id. Snapshots may carry
// the same id in more than one stack.
func (b Bag) Count(id int64) int64 {
	var total int64
	for _, s := range b {
		if s.ItemID == id {
			total += s.Count
		}
	}
	return total
}

// CouponBalance returns the spendable coupon count in the snapshot.
func (b Bag) CouponBalance() int64 {
	return b.Count(CouponID)
}

// PacksIn returns the pack stacks present in the snapshot with a positive
// count, in snapshot order.
func PacksIn(b Bag) []Stack {
	var out []Stack
	for _, s := range b {
		if s.Count > 0 && IsPack(s.ItemID) {
			out = append(out, s)
		}
	}
	return out
}

// FertilizersIn returns the known fertilizer stacks present in the snapshot
// with a positive count, in snapshot order.
func FertilizersIn(b Bag) []Stack {
	var out []Stack
	for _, s := range b {
		if s.Count > 0 {
			if _, ok := fertilizers[s.ItemID]; ok {
				out = append(out, s)
			}
		}
	}
	return out
}
