package pet

import (
	"errors"
	"fmt"
	"math"
	"time"

	"droughtcast/timeseries"
)

var (
	// ErrLatitude indicates a latitude outside [-90, 90] degrees
	ErrLatitude = errors.New("pet: latitude outside [-90, 90]")
	// ErrHeatIndex indicates a series too cold to fit the Thornthwaite model
	ErrHeatIndex = errors.New("pet: non-positive annual heat index with above-zero temperatures")
)

// Thornthwaite estimates monthly potential evapotranspiration in mm from
// monthly mean temperatures in degrees Celsius and the site latitude, using
// the Thornthwaite (1948) temperature and daylight method. Months at or
// below 0 degrees yield zero PET; missing temperatures yield missing PET.
func Thornthwaite(temp *timeseries.Series, latitudeDeg float64) (*timeseries.Series, error) {
	if latitudeDeg < -90 || latitudeDeg > 90 {
		return nil, fmt.Errorf("%w: %.2f", ErrLatitude, latitudeDeg)
	}

	heatIndex := annualHeatIndex(temp)

	values := make([]float64, temp.Len())
	for i := 0; i < temp.Len(); i++ {
		t := temp.Value(i)
		switch {
		case math.IsNaN(t) || math.IsInf(t, 0):
			values[i] = math.NaN()
		case t <= 0:
			values[i] = 0
		default:
			if heatIndex <= 0 {
				return nil, ErrHeatIndex
			}
			values[i] = monthlyPET(t, heatIndex, temp.Time(i), latitudeDeg)
		}
	}

	return temp.WithValues(values)
}

// annualHeatIndex sums (T/5)^1.514 over the monthly normal temperatures,
// counting only normals above zero
func annualHeatIndex(temp *timeseries.Series) float64 {
	var sums, counts [13]float64
	for i := 0; i < temp.Len(); i++ {
		v := temp.Value(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m := temp.Time(i).Month()
		sums[m] += v
		counts[m]++
	}

	index := 0.0
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		normal := sums[m] / counts[m]
		if normal > 0 {
			index += math.Pow(normal/5.0, 1.514)
		}
	}
	return index
}

// monthlyPET computes one month's corrected PET value
func monthlyPET(t, heatIndex float64, when time.Time, latitudeDeg float64) float64 {
	a := 6.75e-7*math.Pow(heatIndex, 3) - 7.71e-5*math.Pow(heatIndex, 2) + 1.792e-2*heatIndex + 0.49239
	uncorrected := 16.0 * math.Pow(10.0*t/heatIndex, a)

	// Correction for day length and month length
	n := daylightHours(latitudeDeg, when)
	days := daysInMonth(when.Year(), when.Month())
	correction := (n / 12.0) * (float64(days) / 30.0)

	return uncorrected * correction
}

// daylightHours returns the mean day length in hours for the month of the
// given date at the given latitude, from the solar declination at mid-month
func daylightHours(latitudeDeg float64, when time.Time) float64 {
	mid := time.Date(when.Year(), when.Month(), 15, 0, 0, 0, 0, time.UTC)
	j := float64(mid.YearDay())
	declination := 0.4093 * math.Sin(2.0*math.Pi*j/365.0-1.405)

	latitude := latitudeDeg * math.Pi / 180.0
	cosArg := -math.Tan(latitude) * math.Tan(declination)
	// Polar day and night clamp
	if cosArg > 1 {
		cosArg = 1
	} else if cosArg < -1 {
		cosArg = -1
	}
	sunsetAngle := math.Acos(cosArg)

	return 24.0 * sunsetAngle / math.Pi
}

// daysInMonth returns the calendar day count of a month, leap-aware
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
