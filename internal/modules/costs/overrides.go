package costs

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/aristath/fleetcost/internal/domain"
)

// Key identifies one overridable quantity
type Key int

const (
	FuelPrice Key = iota
	ElectricityPrice
	MaintenanceCost
	AnnualKms
	ResidualValue
	BatteryLife
	ChargingEfficiency

	keyCount
)

var keyNames = [keyCount]string{
	FuelPrice:          "fuel_price_variation",
	ElectricityPrice:   "electricity_price_variation",
	MaintenanceCost:    "maintenance_cost_variation",
	AnnualKms:          "annual_kms_variation",
	ResidualValue:      "residual_value_variation",
	BatteryLife:        "battery_life_variation",
	ChargingEfficiency: "charging_efficiency_variation",
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// Valid reports whether k is part of the closed key set
func (k Key) Valid() bool {
	return k >= 0 && k < keyCount
}

// IsAbsolute reports whether the override replaces the base value instead of scaling it
func (k Key) IsAbsolute() bool {
	return k == AnnualKms
}

// MarshalText implements encoding.TextMarshaler
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid override key %d", int(k))
	}
	return []byte(keyNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey maps a wire name to its key
func ParseKey(name string) (Key, error) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return 0, domain.NewConfigurationError("overrides", "unknown override key %q", name)
}

// Keys returns the full key set in declaration order
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Overrides is a small immutable map of what-if substitutions.
// It is a value type: With returns a modified copy, so one base aggregate can
// be evaluated concurrently under many different override sets.
type Overrides struct {
	values [keyCount]float64
	set    [keyCount]bool
}

// NoOverrides is the empty override set
var NoOverrides = Overrides{}

// With returns a copy with k set to v
func (o Overrides) With(k Key, v float64) Overrides {
	if k.Valid() {
		o.values[k] = v
		o.set[k] = true
	}
	return o
}

// Get returns the override value and whether it is present
func (o Overrides) Get(k Key) (float64, bool) {
	if !k.Valid() || !o.set[k] {
		return 0, false
	}
	return o.values[k], true
}

// Multiplier returns the relative override for k, or 1.0 when absent
func (o Overrides) Multiplier(k Key) float64 {
	if v, ok := o.Get(k); ok {
		return v
	}
	return 1.0
}

// Len returns the number of present overrides
func (o Overrides) Len() int {
	n := 0
	for _, s := range o.set {
		if s {
			n++
		}
	}
	return n
}

// Keys returns the present keys in declaration order
func (o Overrides) Keys() []Key {
	keys := make([]Key, 0, keyCount)
	for k, s := range o.set {
		if s {
			keys = append(keys, Key(k))
		}
	}
	return keys
}

// Map returns the present overrides keyed by wire name
func (o Overrides) Map() map[string]float64 {
	m := make(map[string]float64, o.Len())
	for _, k := range o.Keys() {
		m[k.String()] = o.values[k]
	}
	return m
}

// Validate rejects values no calculator can use
func (o Overrides) Validate() error {
	for _, k := range o.Keys() {
		v := o.values[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.NewDomainError("overrides", "%s must be finite (got %v)", k, v)
		}
		if v < 0 {
			return domain.NewDomainError("overrides", "%s cannot be negative (got %v)", k, v)
		}
		if k == AnnualKms && v == 0 {
			return domain.NewDomainError("overrides", "%s must be positive", k)
		}
	}
	return nil
}

// ParseOverrides converts a wire map into Overrides.
// Unknown keys are ignored unless strict is set, in which case the first
// unknown key (in sorted order) is reported as a ConfigurationError.
func ParseOverrides(raw map[string]float64, strict bool) (Overrides, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	o := NoOverrides
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			if strict {
				return NoOverrides, err
			}
			continue
		}
		o = o.With(k, raw[name])
	}
	return o, nil
}

// annualKm resolves the annual distance of a vehicle under o
func annualKm(v domain.VehicleSpec, o Overrides) (float64, error) {
	km, ok := o.Get(AnnualKms)
	if !ok {
		return v.AnnualKm, nil
	}
	if km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return 0, domain.NewDomainError("annual_km", "%s must be positive (got %v)", AnnualKms, km)
	}
	return km, nil
}

// MarshalJSON encodes the present overrides as an object keyed by wire name
func (o Overrides) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map())
}

// UnmarshalJSON decodes a wire map leniently
func (o *Overrides) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOverrides(raw, false)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
