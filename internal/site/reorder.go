package site

// MoveItem returns a copy of items with the element at from reinserted at
// to. All other elements keep their relative positions. Out-of-range
// indexes return the input unchanged; callers treat that as a no-op rather
// than an error.
func MoveItem[T any](items []T, from, to int) []T {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}
