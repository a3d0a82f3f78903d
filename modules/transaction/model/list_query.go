package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/roysitumorang/raket/helper"
)

const (
	OperatorEqual          = "="
	OperatorGreaterOrEqual = ">="
	OperatorLessOrEqual    = "<="
	OperatorIn             = "IN"
)

const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

const (
	ColumnID              = "id"
	ColumnTransactionDate = "transaction_date"
	ColumnStatus          = "status"
	ColumnImportHash      = "import_hash"
	ColumnActive          = "active"
	ColumnBuyerID         = "buyer_id"
	ColumnRacketID        = "racket_id"
	ColumnCreatedAt       = "created_at"
	ColumnUpdatedAt       = "updated_at"
)

type (
	// Clause is a single condition on a transactions column. Values holds one
	// value, or the alternatives of an IN clause.
	Clause struct {
		Column   string
		Operator string
		Values   []any
	}

	// ListQuery is a filter resolved into AND-combined clauses plus paging.
	ListQuery struct {
		Clauses   []Clause
		Limit     *int64
		Offset    int64
		OrderBy   string
		Direction string
	}
)

var (
	sortableColumns = map[string]string{
		"id":               ColumnID,
		"transaction_date": ColumnTransactionDate,
		"status":           ColumnStatus,
		"active":           ColumnActive,
		"importHash":       ColumnImportHash,
		"import_hash":      ColumnImportHash,
		"createdAt":        ColumnCreatedAt,
		"created_at":       ColumnCreatedAt,
		"updatedAt":        ColumnUpdatedAt,
		"updated_at":       ColumnUpdatedAt,
	}

	rangeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// ParseActive accepts true, "true", false and "false". Anything else leaves
// the listing unconstrained on active.
func ParseActive(value any) *bool {
	var active bool
	switch v := value.(type) {
	case bool:
		active = v
	case *bool:
		if v == nil {
			return nil
		}
		active = *v
	case string:
		switch v {
		case "true":
			active = true
		case "false":
			active = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &active
}

func parseRangeBound(value string) (time.Time, error) {
	for _, layout := range rangeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRangeBound, value)
}

// rangeClauses adds a lower bound for a non-empty start and an upper bound for
// a non-empty end, independently of each other.
func rangeClauses(column string, bounds []string) ([]Clause, error) {
	var start, end string
	if len(bounds) > 0 {
		start = strings.TrimSpace(bounds[0])
	}
	if len(bounds) > 1 {
		end = strings.TrimSpace(bounds[1])
	}
	var clauses []Clause
	if start != "" {
		t, err := parseRangeBound(start)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, Clause{Column: column, Operator: OperatorGreaterOrEqual, Values: []any{t}})
	}
	if end != "" {
		t, err := parseRangeBound(end)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, Clause{Column: column, Operator: OperatorLessOrEqual, Values: []any{t}})
	}
	return clauses, nil
}

func anyOfClause(column, list string) (*Clause, error) {
	items := strings.Split(list, "|")
	values := make([]any, len(items))
	for i, item := range items {
		id, err := helper.NormalizeUUID(item)
		if err != nil {
			return nil, err
		}
		values[i] = id
	}
	return &Clause{Column: column, Operator: OperatorIn, Values: values}, nil
}

// BuildListQuery resolves filter into clauses in a fixed order: id,
// transaction date range, active, status, buyer, racket, created at range.
func BuildListQuery(filter *Filter) (*ListQuery, error) {
	response := ListQuery{
		OrderBy:   ColumnCreatedAt,
		Direction: DirectionDesc,
	}
	if filter == nil {
		return &response, nil
	}
	if filter.ID != "" {
		id, err := helper.NormalizeUUID(filter.ID)
		if err != nil {
			return nil, err
		}
		response.Clauses = append(response.Clauses, Clause{Column: ColumnID, Operator: OperatorEqual, Values: []any{id}})
	}
	if filter.TransactionDateRange != nil {
		clauses, err := rangeClauses(ColumnTransactionDate, filter.TransactionDateRange)
		if err != nil {
			return nil, err
		}
		response.Clauses = append(response.Clauses, clauses...)
	}
	if active := ParseActive(filter.Active); active != nil {
		response.Clauses = append(response.Clauses, Clause{Column: ColumnActive, Operator: OperatorEqual, Values: []any{*active}})
	}
	if filter.Status != "" {
		response.Clauses = append(response.Clauses, Clause{Column: ColumnStatus, Operator: OperatorEqual, Values: []any{filter.Status}})
	}
	if filter.Buyer != "" {
		clause, err := anyOfClause(ColumnBuyerID, filter.Buyer)
		if err != nil {
			return nil, err
		}
		response.Clauses = append(response.Clauses, *clause)
	}
	if filter.Racket != "" {
		clause, err := anyOfClause(ColumnRacketID, filter.Racket)
		if err != nil {
			return nil, err
		}
		response.Clauses = append(response.Clauses, *clause)
	}
	if filter.CreatedAtRange != nil {
		clauses, err := rangeClauses(ColumnCreatedAt, filter.CreatedAtRange)
		if err != nil {
			return nil, err
		}
		response.Clauses = append(response.Clauses, clauses...)
	}
	if filter.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if filter.Page < 0 {
		return nil, ErrNegativeOffset
	}
	// zero limit means no LIMIT at all, not zero rows
	if filter.Limit > 0 {
		if filter.Page > math.MaxInt64/filter.Limit {
			return nil, ErrPageOutOfRange
		}
		limit := filter.Limit
		response.Limit = &limit
		response.Offset = filter.Page * filter.Limit
	}
	if filter.Field != "" && filter.Sort != "" {
		column, ok := sortableColumns[filter.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, filter.Field)
		}
		switch strings.ToUpper(filter.Sort) {
		case DirectionAsc:
			response.Direction = DirectionAsc
		case DirectionDesc:
			response.Direction = DirectionDesc
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortDirection, filter.Sort)
		}
		response.OrderBy = column
	}
	return &response, nil
}
