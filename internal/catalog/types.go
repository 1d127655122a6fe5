package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PriceTier is the cost bracket of a model. The zero value is Budget.
type PriceTier int

const (
	Budget PriceTier = iota
	Mid
	Premium
)

// Ordinal returns the ranking position of the tier: cheaper tiers come first.
func (t PriceTier) Ordinal() int {
	switch t {
	case Budget:
		return 0
	case Mid:
		return 1
	case Premium:
		return 2
	}
	panic(fmt.Sprintf("catalog: invalid price tier %d", int(t)))
}

func (t PriceTier) String() string {
	switch t {
	case Budget:
		return "budget"
	case Mid:
		return "mid"
	case Premium:
		return "premium"
	}
	return fmt.Sprintf("PriceTier(%d)", int(t))
}

// Label is the user-facing (Russian) name of the tier.
func (t PriceTier) Label() string {
	switch t {
	case Budget:
		return "бюджетный"
	case Mid:
		return "средний"
	case Premium:
		return "премиум"
	}
	return t.String()
}

// ParsePriceTier accepts both the canonical names and the Russian labels used
// by the content files.
func ParsePriceTier(s string) (PriceTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "budget", "бюджетный":
		return Budget, nil
	case "mid", "средний":
		return Mid, nil
	case "premium", "премиум":
		return Premium, nil
	}
	return 0, fmt.Errorf("unknown price tier %q", s)
}

func (t PriceTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PriceTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price tier: %w", err)
	}
	v, err := ParsePriceTier(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EquipmentRecord is one air-conditioner model of the catalog.
type EquipmentRecord struct {
	Brand        string    `json:"brand" validate:"required"`
	Model        string    `json:"model" validate:"required"`
	BTU          int       `json:"btu" validate:"gt=0"`
	CoolingPower float64   `json:"cooling_power_kw" validate:"gte=0"`
	AreaMin      float64   `json:"area_min_m2" validate:"gte=0"`
	AreaMax      float64   `json:"area_max_m2" validate:"gtefield=AreaMin"`
	Type         string    `json:"type" validate:"required"`
	Inverter     bool      `json:"inverter"`
	WiFi         bool      `json:"wifi"`
	EnergyClass  string    `json:"energy_class"`
	PriceTier    PriceTier `json:"price_range"`
}

// Serves reports whether the record is rated for the given area (inclusive range).
func (r EquipmentRecord) Serves(area float64) bool {
	return r.AreaMin <= area && area <= r.AreaMax
}
