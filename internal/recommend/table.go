package recommend

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// PlanRow is one scored plan entry in the precomputed table. Several rows
// may share the same feature vector; they are the alternatives for that
// profile bucket.
type PlanRow struct {
	PlanName       string
	Score          float64
	Needs          []string
	UserAttributes string
	Vector         FeatureVector
}

// PlanTable is the precomputed mapping from feature vectors to scored plan
// rows. It is loaded once at startup and read-only afterwards, so it is safe
// to share across concurrent resolver calls. Rows keep their file order
// within a bucket.
type PlanTable struct {
	rows map[FeatureVector][]PlanRow
	size int
}

// LoadPlanTable reads the plan dataset from a CSV file with one column per
// feature flag plus plan_name, score, needs (semicolon-separated tags) and
// user_attributes.
func LoadPlanTable(path string) (*PlanTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan table: %w", err)
	}
	defer f.Close()

	return readPlanTable(f)
}

func readPlanTable(r io.Reader) (*PlanTable, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read plan table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range featureNames {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("plan table missing feature column %q", name)
		}
	}
	for _, name := range []string{"plan_name", "score"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("plan table missing column %q", name)
		}
	}

	t := &PlanTable{rows: make(map[FeatureVector][]PlanRow)}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read plan table: %w", err)
		}
		line++

		var v FeatureVector
		for i, name := range featureNames {
			v[i] = strings.TrimSpace(record[col[name]]) == "1"
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(record[col["score"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("plan table line %d: bad score: %w", line, err)
		}

		row := PlanRow{
			PlanName: strings.TrimSpace(record[col["plan_name"]]),
			Score:    score,
			Vector:   v,
		}
		if idx, ok := col["needs"]; ok {
			row.Needs = splitTags(record[idx])
		}
		if idx, ok := col["user_attributes"]; ok {
			row.UserAttributes = strings.TrimSpace(record[idx])
		}

		t.rows[v] = append(t.rows[v], row)
		t.size++
	}

	return t, nil
}

// Lookup returns the rows stored under the exact vector, in file order. A
// nil result is a lookup miss.
func (t *PlanTable) Lookup(v FeatureVector) []PlanRow {
	return t.rows[v]
}

// Len is the total number of plan rows loaded.
func (t *PlanTable) Len() int {
	return t.size
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ";") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
