package product

// StockRequest carries exactly one of Absolute or Delta.
type StockRequest struct {
	Absolute *int
	Delta    *int
}

// ComputeStockChange normalizes an absolute-or-delta request into a
// (newStock, change) pair. A delta that would drive stock negative is
// clamped to zero and the change adjusted to match the clamp, so the
// audit invariant newStock = oldStock + change always holds.
func ComputeStockChange(oldStock int, req StockRequest) (newStock, change int, ok bool) {
	switch {
	case req.Absolute != nil && req.Delta != nil:
		return 0, 0, false
	case req.Absolute != nil:
		newStock = *req.Absolute
		change = newStock - oldStock
	case req.Delta != nil:
		change = *req.Delta
		newStock = oldStock + change
		if newStock < 0 {
			newStock = 0
			change = -oldStock
		}
	default:
		return 0, 0, false
	}

	return newStock, change, true
}

// InferReason picks an audit reason from the direction of the change when
// the caller did not supply one.
func InferReason(change int) string {
	switch {
	case change > 0:
		return "restocked"
	case change < 0:
		return "goods sold"
	default:
		return "stock adjusted"
	}
}
