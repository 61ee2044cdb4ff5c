package calculator

// Registrar accepts calculators. *registry.Registry satisfies it; catalog
// modules depend on this interface so they never import the registry.
type Registrar interface {
	Register(c Calculator) error
}

// RegisterAll registers cs in order and stops at the first failure.
func RegisterAll(r Registrar, cs ...Calculator) error {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
