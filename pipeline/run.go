package pipeline

import "context"

// Run maps inputs through a pipeline with n workers and returns the outputs
// in input order. Inputs whose transform fails are dropped from the result.
// It is a convenience wrapper over New/Add/End/Join for slice-shaped work.
func Run[I, O any](
	ctx context.Context,
	inputs []I,
	transform func(context.Context, I) (O, error),
	n int,
	opts ...Option,
) ([]O, error) {
	out := make([]O, 0, len(inputs))

	p, err := New(ctx, transform, func(v O) error {
		out = append(out, v)
		return nil
	}, append(opts, WithWorkers(n))...)
	if err != nil {
		return nil, err
	}

	for _, in := range inputs {
		if err := p.Add(in); err != nil {
			p.End()
			p.Join()
			return nil, err
		}
	}
	p.End()
	p.Join()

	return out, nil
}
