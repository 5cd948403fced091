package contracts

import (
	"net/url"
)

type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpContains Operator = "contains"
	OpIn       Operator = "in"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpAny      Operator = "any"
)

// Predicate is one typed condition on a storage field. OpAny ignores Field
// and Value and matches when any of Any matches.
type Predicate struct {
	Field    string
	Operator Operator
	Value    interface{}
	Any      []Predicate
}

type SortDirection int

const (
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

func (d SortDirection) Invert() SortDirection {
	return -d
}

func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

type SortField struct {
	Field     string
	Direction SortDirection
}

// QuerySpecification is built once per request and never mutated after.
type QuerySpecification struct {
	ResourceType string
	Predicates   []Predicate
	Sort         []SortField
	Page         int
	Limit        int
	Debug        *QueryDebug
}

func (q *QuerySpecification) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// QueryDebug is the troubleshooting trace. Values of sensitive fields are
// already replaced.
type QueryDebug struct {
	Predicates     []string `json:"predicates"`
	Sort           []string `json:"sort"`
	RequestedPage  string   `json:"requestedPage,omitempty"`
	RequestedLimit string   `json:"requestedLimit,omitempty"`
	Page           int      `json:"page"`
	Limit          int      `json:"limit"`
}

type QueryShaper interface {
	Shape(resourceType string, raw url.Values) (*QuerySpecification, error)
}
