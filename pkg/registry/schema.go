// pkg/registry/schema.go
package registry

// PayloadCatalog is the exported description of every payload kind the tooling understands.
type PayloadCatalog struct {
	Version     string        `json:"version"`
	LastUpdated string        `json:"lastUpdated"`
	Kinds       []PayloadKind `json:"kinds"`
}

const (
	DirectionRequest  = "request"
	DirectionResponse = "response"
)

type PayloadKind struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Direction   string                 `json:"direction"`
	Fields      []FieldPair            `json:"fields"`
	Schema      map[string]interface{} `json:"schema"`
	ErrorCodes  []string               `json:"errorCodes"`

	normalize func(data []byte) ([]byte, error)
}

// FieldPair is one row of a payload's name table.
type FieldPair struct {
	Local string `json:"local"`
	Wire  string `json:"wire"`
}
