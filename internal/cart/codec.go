package cart

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EncodeLines serializes the collection as a JSON array ordered by product id.
func EncodeLines(lines []Line) ([]byte, error) {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})
	return json.Marshal(sorted)
}

// DecodeLines parses a persisted blob back into lines. A payload that is not
// a JSON array of line-shaped records is an error; the store treats that as a
// corrupt blob and resets. Lines violating the collection invariants are
// dropped, and a later duplicate id wins over an earlier one.
func DecodeLines(payload []byte) ([]Line, error) {
	var decoded []Line
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode cart blob: %w", err)
	}

	byID := map[int64]Line{}
	order := make([]int64, 0, len(decoded))
	for _, line := range decoded {
		if !line.valid() {
			continue
		}
		if _, seen := byID[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		byID[line.ProductID] = line
	}

	lines := make([]Line, 0, len(byID))
	for _, id := range order {
		lines = append(lines, byID[id])
	}
	return lines, nil
}
