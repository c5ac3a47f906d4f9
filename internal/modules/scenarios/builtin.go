package scenarios

const builtinYears = 15

// Built-in scenario ids
const (
	Baseline               = "baseline"
	TechnologyBreakthrough = "technology_breakthrough"
	OilCrisis              = "oil_crisis"
	CarbonTransition       = "carbon_transition"
)

// Builtin returns the standard scenario set, freshly allocated
func Builtin() []*Scenario {
	maintenance := LinearTrajectory(0.85, 1.25, builtinYears)

	return []*Scenario{
		{
			ID:               Baseline,
			Name:             "Baseline",
			Description:      "Current trajectory with moderate price increases",
			DieselPrice:      GrowthTrajectory(0.03, builtinYears),
			ElectricityPrice: GrowthTrajectory(0.02, builtinYears),
			BatteryPrice:     GrowthTrajectory(-0.07, builtinYears),
			CarbonPrice:      Constant(0, builtinYears),
			Maintenance:      maintenance,
			// efficiency stays flat; the baseline reference totals are calibrated on it
		},
		{
			ID:               TechnologyBreakthrough,
			Name:             "Technology Breakthrough",
			Description:      "Rapid battery technology improvement",
			DieselPrice:      GrowthTrajectory(0.03, builtinYears),
			ElectricityPrice: GrowthTrajectory(0.02, builtinYears),
			BatteryPrice: Trajectory{
				1.0, 0.85, 0.72, 0.61, 0.52, 0.44, 0.37, 0.32, 0.27, 0.23, 0.20, 0.17, 0.15, 0.13, 0.11,
			},
			CarbonPrice:      Constant(0, builtinYears),
			BEVEfficiency:    GrowthTrajectory(-0.04, builtinYears),
			DieselEfficiency: GrowthTrajectory(-0.01, builtinYears),
			BEVResidualValue: Trajectory{1.0, 1.0, 1.05, 1.1, 1.15, 1.2, 1.25, 1.3},
			Maintenance:      maintenance,
		},
		{
			ID:          OilCrisis,
			Name:        "Oil Crisis",
			Description: "Major oil supply disruption in year 3",
			DieselPrice: Trajectory{
				1.0, 1.03, 1.55, 1.60, 1.65, 1.70, 1.75, 1.80, 1.86, 1.91, 1.97, 2.03, 2.09, 2.15, 2.22,
			},
			ElectricityPrice: GrowthTrajectory(0.03, builtinYears),
			BatteryPrice:     GrowthTrajectory(-0.07, builtinYears),
			CarbonPrice:      Constant(0, builtinYears),
			BEVEfficiency:    GrowthTrajectory(-0.02, builtinYears),
			DieselEfficiency: GrowthTrajectory(-0.02, builtinYears),
			Maintenance:      maintenance,
		},
		{
			ID:                 CarbonTransition,
			Name:               "Carbon Transition",
			Description:        "Rising carbon price with purchase incentives withdrawn after year 5",
			DieselPrice:        GrowthTrajectory(0.03, builtinYears),
			ElectricityPrice:   GrowthTrajectory(0.02, builtinYears),
			BatteryPrice:       GrowthTrajectory(-0.07, builtinYears),
			CarbonPrice:        StepTrajectory(25, 5, builtinYears),
			Maintenance:        maintenance,
			PolicyPhaseOutYear: 6,
		},
	}
}
