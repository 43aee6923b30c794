package results

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ClassDistribution maps class labels to counts over the evaluated set. Labels
// keep the order in which the service sent them.
type ClassDistribution struct {
	Labels []string
	Counts map[string]int
}

// NewClassDistribution builds a distribution from ordered label/count pairs.
func NewClassDistribution(labels []string, counts map[string]int) *ClassDistribution {
	d := &ClassDistribution{Counts: make(map[string]int, len(labels))}
	for _, l := range labels {
		d.Add(l, counts[l])
	}
	return d
}

// Add appends a label or increases its count.
func (d *ClassDistribution) Add(label string, n int) {
	if d.Counts == nil {
		d.Counts = map[string]int{}
	}
	if _, ok := d.Counts[label]; !ok {
		d.Labels = append(d.Labels, label)
	}
	d.Counts[label] += n
}

// Total is the sum of all counts.
func (d *ClassDistribution) Total() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, l := range d.Labels {
		total += d.Counts[l]
	}
	return total
}

// ClassShare is one row of the distribution table.
type ClassShare struct {
	Label   string
	Count   int
	Percent float64
}

// Shares computes count/total*100 for every label. The total is computed once
// up front; an empty distribution yields zero percentages.
func (d *ClassDistribution) Shares() []ClassShare {
	if d == nil {
		return nil
	}
	total := d.Total()
	out := make([]ClassShare, 0, len(d.Labels))
	for _, l := range d.Labels {
		c := d.Counts[l]
		p := 0.0
		if total > 0 {
			p = float64(c) * 100 / float64(total)
		}
		out = append(out, ClassShare{Label: l, Count: c, Percent: p})
	}
	return out
}

// FormatPercent renders a share as "30.00%".
func FormatPercent(p float64) string { return fmt.Sprintf("%.2f%%", p) }

// UnmarshalJSON decodes a JSON object while preserving key order.
func (d *ClassDistribution) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("class distribution: expected object, got %v", tok)
	}
	*d = ClassDistribution{Counts: map[string]int{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := kt.(string)
		if !ok {
			return fmt.Errorf("class distribution: expected string key, got %v", kt)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("class distribution %q: %w", label, err)
		}
		if n < 0 {
			return fmt.Errorf("class distribution %q: negative count %d", label, n)
		}
		d.Add(label, n)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the distribution as an object in label order.
func (d ClassDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range d.Labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", d.Counts[l])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
