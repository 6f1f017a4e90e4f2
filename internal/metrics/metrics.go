package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLengthMismatch means actual and predicted differ in length.
	ErrLengthMismatch = errors.New("actual and predicted lengths differ")
	// ErrEmpty means there is nothing to evaluate.
	ErrEmpty = errors.New("no observations to evaluate")
	// ErrDuplicateModel means a model name was added to a table twice.
	ErrDuplicateModel = errors.New("duplicate model name in comparison table")
)

// Row is one model's error summary. R2 is NaN when the actual values are
// constant, since the metric is undefined there rather than zero.
type Row struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// R2Defined reports whether the R² entry is meaningful.
func (r Row) R2Defined() bool { return !math.IsNaN(r.R2) }

type rowJSON struct {
	RMSE float64  `json:"rmse"`
	MAE  float64  `json:"mae"`
	R2   *float64 `json:"r2"`
}

// MarshalJSON renders an undefined R² as null, since NaN has no JSON form.
func (r Row) MarshalJSON() ([]byte, error) {
	j := rowJSON{RMSE: r.RMSE, MAE: r.MAE}
	if r.R2Defined() {
		j.R2 = &r.R2
	}
	return json.Marshal(j)
}

func (r *Row) UnmarshalJSON(b []byte) error {
	var j rowJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	r.RMSE = j.RMSE
	r.MAE = j.MAE
	if j.R2 == nil {
		r.R2 = math.NaN()
	} else {
		r.R2 = *j.R2
	}
	return nil
}

// Evaluate computes RMSE, MAE and R² of predicted against actual.
func Evaluate(actual, predicted []float64) (Row, error) {
	if len(actual) != len(predicted) {
		return Row{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(actual), len(predicted))
	}
	n := len(actual)
	if n == 0 {
		return Row{}, ErrEmpty
	}

	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(n)

	var ssr, sst, abs float64
	for i := 0; i < n; i++ {
		res := actual[i] - predicted[i]
		ssr += res * res
		abs += math.Abs(res)
		dev := actual[i] - mean
		sst += dev * dev
	}

	row := Row{
		RMSE: math.Sqrt(ssr / float64(n)),
		MAE:  abs / float64(n),
	}
	if sst == 0 {
		row.R2 = math.NaN()
	} else {
		row.R2 = 1 - ssr/sst
	}
	return row, nil
}

// Entry is one line of the comparison table. Unavailable models keep their
// place with the failure reason instead of metrics.
type Entry struct {
	Name      string `json:"name"`
	Row       Row    `json:"metrics"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Table compares models by name. Insertion order is preserved for rendering;
// names must be unique.
type Table struct {
	entries []Entry
	seen    map[string]struct{}
}

func NewTable() *Table {
	return &Table{seen: make(map[string]struct{})}
}

func (t *Table) Add(name string, row Row) error {
	return t.add(Entry{Name: name, Row: row, Available: true})
}

// AddUnavailable records a model whose fit or evaluation failed.
func (t *Table) AddUnavailable(name string, reason error) error {
	e := Entry{Name: name}
	if reason != nil {
		e.Reason = reason.Error()
	}
	return t.add(e)
}

func (t *Table) add(e Entry) error {
	if _, dup := t.seen[e.Name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateModel, e.Name)
	}
	t.seen[e.Name] = struct{}{}
	t.entries = append(t.entries, e)
	return nil
}

// Entries returns the table rows in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the entry for a model name.
func (t *Table) Lookup(name string) (Entry, bool) {
	if _, ok := t.seen[name]; !ok {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
