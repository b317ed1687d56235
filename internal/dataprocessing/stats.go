package dataprocessing

import "math"

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j] pairs
// Columns[i] with Columns[j]. Pairs with a zero-variance column are 0.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Get returns the coefficient of columns a and b, or false when either is absent
func (m CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// correlate builds the matrix of columns, each entry of series being one column
func correlate(columns []string, series [][]float64) CorrelationMatrix {
	m := CorrelationMatrix{
		Columns: columns,
		Values:  make([][]float64, len(series)),
	}
	for i := range series {
		m.Values[i] = make([]float64, len(series))
	}
	for i := range series {
		for j := i; j < len(series); j++ {
			r := round4(pearson(series[i], series[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// pearson returns the correlation coefficient of x and y (equal lengths).
// It is 0 when either series is constant or shorter than two values.
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	mx, my := mean(x), mean(y)

	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// sampleStdDev is the n-1 standard deviation; 0 below two values
func sampleStdDev(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	m := mean(v)
	var ss float64
	for _, x := range v {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(v)-1))
}
