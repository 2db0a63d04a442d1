package impact

import "testing"

func TestCalculate(t *testing.T) {
	tests := []int64{0, 1, 30000, 60000, 1800000, 3_723_456}

	for _, ms := range tests {
		got := Calculate(ms)
		minutes := float64(ms) / 60000

		if got.CO2Grams != minutes*0.35 {
			t.Errorf("Calculate(%d).CO2Grams = %v, want %v", ms, got.CO2Grams, minutes*0.35)
		}
		if got.WaterMl != minutes*8.5 {
			t.Errorf("Calculate(%d).WaterMl = %v, want %v", ms, got.WaterMl, minutes*8.5)
		}
		if got.EnergyWh != minutes*0.18 {
			t.Errorf("Calculate(%d).EnergyWh = %v, want %v", ms, got.EnergyWh, minutes*0.18)
		}
	}
}

func TestCalculate_Zero(t *testing.T) {
	if got := Calculate(0); got != (Estimate{}) {
		t.Errorf("Calculate(0) = %+v, want zero", got)
	}
	if got := Calculate(-500); got != (Estimate{}) {
		t.Errorf("Calculate(-500) = %+v, want zero", got)
	}
}

func TestCalculate_OneHour(t *testing.T) {
	got := Calculate(3600000)
	if got.CO2Grams < 20.99 || got.CO2Grams > 21.01 {
		t.Errorf("CO2Grams = %v, want 21", got.CO2Grams)
	}
	if got.WaterMl != 510 {
		t.Errorf("WaterMl = %v, want 510", got.WaterMl)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
		long string
	}{
		{0, "0s", "0s"},
		{999, "0s", "0s"},
		{45000, "45s", "45s"},
		{61000, "1m 1s", "1m 1s"},
		{1800000, "30m 0s", "30m 0s"},
		{3723000, "1h 2m", "1h 2m 3s"},
		{-10, "0s", "0s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
		if got := FormatDurationLong(tt.ms); got != tt.long {
			t.Errorf("FormatDurationLong(%d) = %q, want %q", tt.ms, got, tt.long)
		}
	}
}
