// SPDX-License-Identifier: MIT

// Package stats provides descriptive statistics and lightweight modelling
// helpers for one-dimensional float64 series.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Method selects a normalization strategy.
type Method string

const (
	// MinMax rescales into [0, 1].
	MinMax Method = "min_max"
	// ZScore centers on the mean and scales by the population std.
	ZScore Method = "z_score"
	// Robust centers on the median and scales by the median absolute
	// deviation, making it insensitive to outliers.
	Robust Method = "robust"
	// IQR flags points outside the 1.5×IQR fences (outlier detection only).
	IQR Method = "iqr"
)

var (
	// ErrUnknownMethod is returned for an unsupported method name.
	ErrUnknownMethod = errors.New("stats: unknown method")
	// ErrBadWindow is returned when a moving-average window does not fit.
	ErrBadWindow = errors.New("stats: window must be in [1, len(data)]")
	// ErrBadInput is returned for series too short or mismatched in length.
	ErrBadInput = errors.New("stats: invalid input series")
	// ErrConstantX is returned when regression is attempted on constant x.
	ErrConstantX = errors.New("stats: x values are constant")
)

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64 // population standard deviation
	Min      float64
	Max      float64
	Q25      float64
	Q75      float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
}

// popStd returns the population standard deviation (divisor n, not n-1).
func popStd(data []float64, mean float64) float64 {
	var ss float64
	for _, x := range data {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(data)))
}

// quantile interpolates linearly over the index range (n-1)*p, the same
// convention as numpy's percentile.
func quantile(sorted []float64, p float64) float64 {
	k := float64(len(sorted)-1) * p
	f := int(k)
	if f == len(sorted)-1 {
		return sorted[f]
	}
	c := k - float64(f)
	return sorted[f]*(1-c) + sorted[f+1]*c
}

// Normalize rescales data with the chosen method. A constant series maps
// to all zeros rather than dividing by zero. The input is not modified.
func Normalize(data []float64, method Method) ([]float64, error) {
	if len(data) == 0 {
		return []float64{}, nil
	}

	out := make([]float64, len(data))
	switch method {
	case MinMax:
		lo, hi := floats.Min(data), floats.Max(data)
		if hi == lo {
			return out, nil
		}
		for i, x := range data {
			out[i] = (x - lo) / (hi - lo)
		}
	case ZScore:
		mean := stat.Mean(data, nil)
		std := popStd(data, mean)
		if std == 0 {
			return out, nil
		}
		for i, x := range data {
			out[i] = (x - mean) / std
		}
	case Robust:
		sorted := sortedCopy(data)
		median := quantile(sorted, 0.5)
		dev := make([]float64, len(data))
		for i, x := range data {
			dev[i] = math.Abs(x - median)
		}
		sort.Float64s(dev)
		mad := quantile(dev, 0.5)
		if mad == 0 {
			return out, nil
		}
		for i, x := range data {
			out[i] = (x - median) / mad
		}
	default:
		return nil, ErrUnknownMethod
	}
	return out, nil
}

// Describe computes the descriptive statistics of data.
func Describe(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, ErrBadInput
	}

	sorted := sortedCopy(data)
	mean := stat.Mean(data, nil)

	return Summary{
		Count:    len(data),
		Mean:     mean,
		Median:   quantile(sorted, 0.5),
		Std:      popStd(data, mean),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Q25:      quantile(sorted, 0.25),
		Q75:      quantile(sorted, 0.75),
		Skewness: Skewness(data),
		Kurtosis: Kurtosis(data),
	}, nil
}

// Skewness returns the population skewness of data, 0 for series shorter
// than two elements or with zero variance.
func Skewness(data []float64) float64 {
	return standardizedMoment(data, 3, 0)
}

// Kurtosis returns the excess kurtosis of data (normal distribution = 0),
// 0 for series shorter than two elements or with zero variance.
func Kurtosis(data []float64) float64 {
	return standardizedMoment(data, 4, 3)
}

func standardizedMoment(data []float64, order int, excess float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mean := stat.Mean(data, nil)
	std := popStd(data, mean)
	if std == 0 {
		return 0
	}
	var m float64
	for _, x := range data {
		m += math.Pow(x-mean, float64(order))
	}
	m /= float64(len(data))
	return m/math.Pow(std, float64(order)) - excess
}

// Outliers returns the indices of outlying points using either the
// 1.5×IQR fences or the |z| > 3 rule.
func Outliers(data []float64, method Method) ([]int, error) {
	if len(data) < 4 {
		return []int{}, nil
	}

	switch method {
	case IQR:
		sorted := sortedCopy(data)
		q1, q3 := quantile(sorted, 0.25), quantile(sorted, 0.75)
		iqr := q3 - q1
		lo, hi := q1-1.5*iqr, q3+1.5*iqr
		var idx []int
		for i, x := range data {
			if x < lo || x > hi {
				idx = append(idx, i)
			}
		}
		return idx, nil
	case ZScore:
		z, err := Normalize(data, ZScore)
		if err != nil {
			return nil, err
		}
		var idx []int
		for i, v := range z {
			if math.Abs(v) > 3 {
				idx = append(idx, i)
			}
		}
		return idx, nil
	default:
		return nil, ErrUnknownMethod
	}
}

// MovingAverage returns the valid-mode windowed mean of data: the result
// has len(data)-window+1 entries.
func MovingAverage(data []float64, window int) ([]float64, error) {
	if window < 1 || window > len(data) {
		return nil, ErrBadWindow
	}

	out := make([]float64, 0, len(data)-window+1)
	sum := floats.Sum(data[:window])
	out = append(out, sum/float64(window))
	for i := window; i < len(data); i++ {
		sum += data[i] - data[i-window]
		out = append(out, sum/float64(window))
	}
	return out, nil
}

// CorrelationMatrix returns the Pearson correlation matrix of the given
// series. All series must share one length. A zero-variance series
// correlates as 0 with everything except itself.
func CorrelationMatrix(series [][]float64) ([][]float64, error) {
	if len(series) == 0 {
		return nil, ErrBadInput
	}
	n := len(series[0])
	for _, s := range series {
		if len(s) != n {
			return nil, ErrBadInput
		}
	}

	m := make([][]float64, len(series))
	for i := range m {
		m[i] = make([]float64, len(series))
		m[i][i] = 1
	}
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			r := stat.Correlation(series[i], series[j], nil)
			if math.IsNaN(r) {
				r = 0
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m, nil
}

// LinearRegression fits y = slope*x + intercept and returns the fit along
// with the coefficient of determination.
func LinearRegression(x, y []float64) (slope, intercept, rSquared float64, err error) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0, 0, ErrBadInput
	}
	if floats.Min(x) == floats.Max(x) {
		return 0, 0, 0, ErrConstantX
	}

	intercept, slope = stat.LinearRegression(x, y, nil, false)
	rSquared = stat.RSquared(x, y, nil, intercept, slope)
	if math.IsNaN(rSquared) {
		rSquared = 0
	}
	return slope, intercept, rSquared, nil
}

func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
