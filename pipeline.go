package csvskema

import "context"

// ApplyNormalize calls Normalizer[T] if implemented.
func ApplyNormalize[T any](ctx context.Context, v T, s Schema[T]) (T, error) {
	if n, ok := any(s).(Normalizer[T]); ok {
		return n.Normalize(ctx, v)
	}
	return v, nil
}

// ApplyRefine calls Refiner[T] if implemented.
func ApplyRefine[T any](ctx context.Context, v T, s Schema[T]) error {
	if r, ok := any(s).(Refiner[T]); ok {
		return r.Refine(ctx, v)
	}
	return nil
}

// Finish runs the tail of Parse on an already coerced value:
// Normalize -> ValidateValue -> Refine.
func Finish[T any](ctx context.Context, v T, s Schema[T]) (T, error) {
	var zero T
	nv, err := ApplyNormalize[T](ctx, v, s)
	if err != nil {
		return zero, err
	}
	if err := s.ValidateValue(ctx, nv); err != nil {
		return zero, err
	}
	if err := ApplyRefine[T](ctx, nv, s); err != nil {
		return zero, err
	}
	return nv, nil
}
