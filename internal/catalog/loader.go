package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"goldcatalog/internal/model"
)

// DataError means the catalog file is missing, unreadable or malformed.
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// record is one entry of the catalog file. Ids are not stored in the file.
type record struct {
	Name            string       `json:"name"`
	PopularityScore float64      `json:"popularityScore"`
	Weight          float64      `json:"weight"`
	Images          model.Images `json:"images"`
}

// Load reads the catalog file and assigns 1-based positional ids. Entries
// that break the item invariants are skipped but still consume their
// position, so ids stay tied to the file order.
func Load(path string) ([]model.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, &DataError{Path: path, Err: fmt.Errorf("expected a JSON array: %w", err)}
	}

	items := make([]model.Item, 0, len(raw))
	var bad []error
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			bad = append(bad, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		it := model.Item{
			ID:              strconv.Itoa(i + 1),
			Name:            r.Name,
			PopularityScore: r.PopularityScore,
			Weight:          r.Weight,
			Images:          r.Images,
		}
		if err := validate(it); err != nil {
			bad = append(bad, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		items = append(items, it)
	}

	if len(bad) > 0 {
		return items, &DataError{Path: path, Err: fmt.Errorf("%d invalid entries: %w", len(bad), errors.Join(bad...))}
	}
	return items, nil
}

// LoadOrEmpty degrades every load failure to the valid subset (possibly
// empty), logging what was lost.
func LoadOrEmpty(path string, logger *zap.Logger) []model.Item {
	items, err := Load(path)
	if err != nil {
		logger.Warn("catalog degraded", zap.String("path", path), zap.Int("items", len(items)), zap.Error(err))
	}
	if items == nil {
		items = []model.Item{}
	}
	return items
}

func validate(it model.Item) error {
	if it.Weight <= 0 {
		return fmt.Errorf("weight must be positive, got %v", it.Weight)
	}
	if it.PopularityScore < 0 || it.PopularityScore > 1 {
		return fmt.Errorf("popularityScore must be within [0,1], got %v", it.PopularityScore)
	}
	if it.Images.Yellow == "" || it.Images.White == "" || it.Images.Rose == "" {
		return fmt.Errorf("images must include yellow, white and rose")
	}
	return nil
}
