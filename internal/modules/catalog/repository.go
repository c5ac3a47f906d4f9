package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/database"
	"github.com/aristath/fleetcost/internal/domain"
)

// vehicleColumns must match scanVehicle
const vehicleColumns = `id, name, drivetrain, weight_class, comparison_pair_id, payload, purchase_price,
	range_km, battery_capacity_kwh, kwh_per_km, litres_per_km, annual_km, annual_registration`

// Repository handles vehicle database operations in catalog.db
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new vehicle repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "vehicle").Logger(),
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row scanner) (domain.VehicleSpec, error) {
	var v domain.VehicleSpec
	var drivetrain, weightClass string
	var pair sql.NullString
	err := row.Scan(&v.ID, &v.Name, &drivetrain, &weightClass, &pair, &v.Payload, &v.PurchasePrice,
		&v.RangeKm, &v.BatteryCapacityKWh, &v.KWhPerKm, &v.LitresPerKm, &v.AnnualKm, &v.AnnualRegistration)
	if err != nil {
		return domain.VehicleSpec{}, err
	}
	v.Drivetrain = domain.Drivetrain(drivetrain)
	v.WeightClass = domain.WeightClass(weightClass)
	v.ComparisonPairID = pair.String
	return v, nil
}

// List returns every vehicle ordered by id
func (r *Repository) List(ctx context.Context) ([]domain.VehicleSpec, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+vehicleColumns+" FROM vehicles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.VehicleSpec
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}
	return vehicles, nil
}

// Get returns one vehicle by id
func (r *Repository) Get(ctx context.Context, id string) (domain.VehicleSpec, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+vehicleColumns+" FROM vehicles WHERE id = ?", id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VehicleSpec{}, fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.VehicleSpec{}, fmt.Errorf("failed to get vehicle %s: %w", id, err)
	}
	return v, nil
}

// Count returns the number of stored vehicles
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vehicles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return n, nil
}

const upsertVehicle = `
	INSERT INTO vehicles (` + vehicleColumns + `, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		drivetrain = excluded.drivetrain,
		weight_class = excluded.weight_class,
		comparison_pair_id = excluded.comparison_pair_id,
		payload = excluded.payload,
		purchase_price = excluded.purchase_price,
		range_km = excluded.range_km,
		battery_capacity_kwh = excluded.battery_capacity_kwh,
		kwh_per_km = excluded.kwh_per_km,
		litres_per_km = excluded.litres_per_km,
		annual_km = excluded.annual_km,
		annual_registration = excluded.annual_registration,
		updated_at = excluded.updated_at
`

func upsert(ctx context.Context, tx *sql.Tx, v domain.VehicleSpec, now int64) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("failed to save vehicle %s: %w", v.ID, err)
	}
	var pair interface{}
	if v.ComparisonPairID != "" {
		pair = v.ComparisonPairID
	}
	_, err := tx.ExecContext(ctx, upsertVehicle,
		v.ID, v.Name, string(v.Drivetrain), string(v.WeightClass), pair, v.Payload, v.PurchasePrice,
		v.RangeKm, v.BatteryCapacityKWh, v.KWhPerKm, v.LitresPerKm, v.AnnualKm, v.AnnualRegistration, now)
	if err != nil {
		return fmt.Errorf("failed to save vehicle %s: %w", v.ID, err)
	}
	return nil
}

// Upsert inserts or replaces vehicles in one transaction
func (r *Repository) Upsert(ctx context.Context, vehicles ...domain.VehicleSpec) error {
	now := time.Now().Unix()
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		for _, v := range vehicles {
			if err := upsert(ctx, tx, v, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Debug().Int("count", len(vehicles)).Msg("Vehicles saved")
	return nil
}

// Delete removes a vehicle
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Seed stores the given vehicles only when the table is empty.
// It reports whether anything was written.
func (r *Repository) Seed(ctx context.Context, vehicles []domain.VehicleSpec) (bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := r.Upsert(ctx, vehicles...); err != nil {
		return false, fmt.Errorf("failed to seed catalog: %w", err)
	}
	r.log.Info().Int("vehicles", len(vehicles)).Msg("Seeded vehicle catalog")
	return true, nil
}
