package dataprocessing

import (
	"sort"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/pkg/contracts/domain"
)

// FeatureColumns is the column order of FeatureSet.X
var FeatureColumns = []string{"Amount", "Category", "Location", "Source", "Hour"}

// LabelEncoder maps the classes of one categorical column to dense integers.
// Classes are sorted, so a class's code is its rank.
type LabelEncoder struct {
	Classes []string `json:"classes"`
	index   map[string]int
}

// NewLabelEncoder fits an encoder on values
func NewLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{Classes: classes, index: index}
}

// Encode returns the code of value and whether value was seen while fitting
func (e *LabelEncoder) Encode(value string) (int, bool) {
	code, ok := e.index[value]
	return code, ok
}

// Decode returns the class of code
func (e *LabelEncoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.Classes) {
		return "", false
	}
	return e.Classes[code], true
}

// FeatureSet is a ledger flattened for model training
type FeatureSet struct {
	Columns  []string                 `json:"columns"`
	X        [][]float64              `json:"x"`
	Labels   []int                    `json:"labels"`
	Encoders map[string]*LabelEncoder `json:"encoders"`
}

// EncodeFeatures drops the identifier and date columns, label-encodes the
// categorical columns and returns the numeric matrix with IsFraud as labels.
func EncodeFeatures(rows []domain.Transaction) (*FeatureSet, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidArgumentError("cannot encode an empty ledger", nil)
	}

	categories := make([]string, len(rows))
	locations := make([]string, len(rows))
	sources := make([]string, len(rows))
	for i, tx := range rows {
		categories[i] = string(tx.Category)
		locations[i] = string(tx.Location)
		sources[i] = string(tx.Source)
	}

	encoders := map[string]*LabelEncoder{
		"Category": NewLabelEncoder(categories),
		"Location": NewLabelEncoder(locations),
		"Source":   NewLabelEncoder(sources),
	}

	fs := &FeatureSet{
		Columns:  append([]string(nil), FeatureColumns...),
		X:        make([][]float64, len(rows)),
		Labels:   make([]int, len(rows)),
		Encoders: encoders,
	}

	for i, tx := range rows {
		cat, _ := encoders["Category"].Encode(categories[i])
		loc, _ := encoders["Location"].Encode(locations[i])
		src, _ := encoders["Source"].Encode(sources[i])

		fs.X[i] = []float64{
			tx.Amount.InexactFloat64(),
			float64(cat),
			float64(loc),
			float64(src),
			float64(tx.Hour),
		}
		if tx.IsFraud {
			fs.Labels[i] = 1
		}
	}

	return fs, nil
}
