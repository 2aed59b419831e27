// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"therapy-recommendations/internal/common/errors"
	"therapy-recommendations/internal/common/wire"
	"therapy-recommendations/internal/models"
)

const CatalogVersion = "1.0.0"

const (
	KindAgeRequest              = "age-request"
	KindTextRequest             = "text-request"
	KindTherapyTask             = "therapy-task"
	KindRecommendationsResponse = "recommendations-response"
)

var builtin = map[string]PayloadKind{
	KindAgeRequest: kindOf(KindAgeRequest, DirectionRequest,
		"Request for tasks matching a patient's age and disorder", models.AgeRequestMapping),
	KindTextRequest: kindOf(KindTextRequest, DirectionRequest,
		"Request for the top_n tasks most similar to a free-text description", models.TextRequestMapping),
	KindTherapyTask: kindOf(KindTherapyTask, DirectionResponse,
		"A single recommended therapy task", models.TherapyTaskMapping),
	KindRecommendationsResponse: kindOf(KindRecommendationsResponse, DirectionResponse,
		"Ranked list of recommended therapy tasks", models.RecommendationsResponseMapping),
}

func kindOf[T any](id, direction, description string, m *wire.Mapping[T]) PayloadKind {
	pairs := m.Pairs()
	fields := make([]FieldPair, len(pairs))
	for i, p := range pairs {
		fields[i] = FieldPair{Local: p[0], Wire: p[1]}
	}

	return PayloadKind{
		ID:          id,
		DisplayName: m.Name,
		Description: description,
		Direction:   direction,
		Fields:      fields,
		Schema:      m.Document(),
		ErrorCodes:  []string{string(errors.ErrCodeMalformedPayload), string(errors.ErrCodePayloadEncodeFailed)},
		normalize: func(data []byte) ([]byte, error) {
			var v T
			if err := wire.Unmarshal(m, data, &v); err != nil {
				return nil, err
			}
			return wire.Marshal(m, &v)
		},
	}
}

// Lookup returns the built-in kind with the given id.
func Lookup(id string) (PayloadKind, error) {
	k, ok := builtin[id]
	if !ok {
		return PayloadKind{}, errors.NewUnknownPayloadKindError(id)
	}
	return k, nil
}

// All returns the built-in kinds sorted by id.
func All() []PayloadKind {
	out := make([]PayloadKind, 0, len(builtin))
	for _, k := range builtin {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the sorted ids of all built-in kinds.
func IDs() []string {
	kinds := All()
	ids := make([]string, len(kinds))
	for i, k := range kinds {
		ids[i] = k.ID
	}
	return ids
}

// Normalize decodes data as this kind and re-encodes it in canonical form: wire names in
// table order, defaults filled in, absent optionals omitted.
func (k PayloadKind) Normalize(data []byte) ([]byte, error) {
	if k.normalize == nil {
		// Kinds read back from a catalog file carry no codec.
		b, err := Lookup(k.ID)
		if err != nil {
			return nil, err
		}
		return b.normalize(data)
	}
	return k.normalize(data)
}

// WireName returns the wire name for a local field name.
func (k PayloadKind) WireName(local string) (string, bool) {
	for _, f := range k.Fields {
		if f.Local == local {
			return f.Wire, true
		}
	}
	return "", false
}

// Catalog builds a catalog from the built-in kinds.
func Catalog() *PayloadCatalog {
	return &PayloadCatalog{
		Version:     CatalogVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Kinds:       All(),
	}
}

// SaveCatalog writes the catalog as indented JSON, creating parent directories.
func SaveCatalog(cat *PayloadCatalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

func LoadCatalog(path string) (*PayloadCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat PayloadCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks that every kind has an id, a known direction and a field table, and that
// ids are unique.
func Validate(cat *PayloadCatalog) error {
	if len(cat.Kinds) == 0 {
		return fmt.Errorf("catalog contains no kinds")
	}

	ids := make(map[string]bool, len(cat.Kinds))
	for _, k := range cat.Kinds {
		if k.ID == "" {
			return fmt.Errorf("kind missing required field: id")
		}
		if ids[k.ID] {
			return fmt.Errorf("duplicate kind id: %s", k.ID)
		}
		ids[k.ID] = true

		if k.Direction != DirectionRequest && k.Direction != DirectionResponse {
			return fmt.Errorf("kind %s has invalid direction %q", k.ID, k.Direction)
		}
		if len(k.Fields) == 0 {
			return fmt.Errorf("kind %s has no fields", k.ID)
		}
	}
	return nil
}
