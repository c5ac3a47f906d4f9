package domain

// VehicleLookup returns static vehicle specifications by identifier.
// Implemented by the catalog; the cost engine only reads through it.
type VehicleLookup interface {
	// Get returns the vehicle with the given id, or an error wrapping ErrNotFound
	Get(id string) (VehicleSpec, error)

	// List returns every vehicle ordered by id
	List() []VehicleSpec
}
