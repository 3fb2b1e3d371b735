package qtff

// Optional is an atom slot that may be absent. The zero value is
// absent. Absent slots are skipped by encoding and reported absent by
// Children.
type Optional[T any] struct {
	Value   T
	Present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func (self Optional[T]) Get() (T, bool) {
	return self.Value, self.Present
}
