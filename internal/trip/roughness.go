package trip

// Two classification views coexist, ported faithfully from the original
// tuning: a direct energy-threshold classifier and a percent-based one. They
// disagree near their boundaries; callers must pick one explicitly. The
// backend payload carries both labels.

// ClassifyEnergy maps an energy sum to a class using fixed thresholds.
func ClassifyEnergy(energySum float64) RoughnessClass {
	switch {
	case energySum < 0.5:
		return RoughnessSmooth
	case energySum <= 1.0:
		return RoughnessNormal
	default:
		return RoughnessRough
	}
}

// RoughnessPercent maps an energy sum to a 0-100 smoothness score where 100
// is perfectly smooth. Energy of 7 or more scores 0.
func RoughnessPercent(energySum float64) float64 {
	if energySum < 0 {
		energySum = 0
	}
	percent := 100 * (1 - energySum/7)
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// ClassifyPercent maps a smoothness percent to a class.
func ClassifyPercent(percent float64) RoughnessClass {
	switch {
	case percent >= 80:
		return RoughnessSmooth
	case percent >= 40:
		return RoughnessNormal
	default:
		return RoughnessRough
	}
}
