package report

// Formula is one entry of the formula reference.
type Formula struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Formulas lists the relations used by the calculator, in evaluation order.
func Formulas() []Formula {
	return []Formula{
		{"n", "Day of year", "n = 1 … 365 (366 in leap years)"},
		{"δ", "Declination", "δ = 23.45° · sin(360°/365 · (284 + n))"},
		{"ω", "Hour angle", "ω = 15° · (t − 12)"},
		{"h", "Sun elevation", "sin h = sin φ · sin δ + cos φ · cos δ · cos ω"},
		{"ψz", "Sun zenith", "ψz = 90° − h"},
		{"a_s", "Sun azimuth", "a_s = atan2(cos δ · sin ω, sin h · sin φ − sin δ) + 180°"},
		{"ψ", "Angle of incidence", "cos ψ = sin h · cos β + cos h · sin β · cos(a_s − a)"},
	}
}
