package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shandysiswandi/gocle/pkg/strcase"
)

// ErrInvalidPagination indicates pagination details could not be parsed.
var ErrInvalidPagination = errors.New("response: invalid pagination details")

// PaginationDetails describes the page returned by a list endpoint.
type PaginationDetails struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination builds pagination details, deriving TotalPages from
// totalItems and pageSize. Out of range inputs are clamped: page and pageSize
// to at least 1 and totalItems to at least 0.
func NewPagination(page, pageSize, totalItems int) PaginationDetails {
	page = max(page, 1)
	pageSize = max(pageSize, 1)
	totalItems = max(totalItems, 0)

	return PaginationDetails{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: int(math.Ceil(float64(totalItems) / float64(pageSize))),
	}
}

// Offset returns the zero based index of the first item on the page.
func (p PaginationDetails) Offset() int {
	return (max(p.Page, 1) - 1) * max(p.PageSize, 1)
}

// ParsePagination reads pagination details from a JSON object in either
// snake_case or camelCase. Unknown fields are ignored and TotalPages is
// always re-derived so it stays consistent with the other fields.
func ParsePagination(raw []byte) (PaginationDetails, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var src map[string]any
	if err := dec.Decode(&src); err != nil {
		return PaginationDetails{}, fmt.Errorf("%w: %w", ErrInvalidPagination, err)
	}

	return ParsePaginationMap(src)
}

// ParsePaginationMap is ParsePagination for an already decoded object.
func ParsePaginationMap(src map[string]any) (PaginationDetails, error) {
	if src == nil {
		return PaginationDetails{}, fmt.Errorf("%w: empty source", ErrInvalidPagination)
	}

	fields, _ := strcase.CamelizeKeys(src).(map[string]any)

	page, err := intField(fields, "page", 1)
	if err != nil {
		return PaginationDetails{}, err
	}
	pageSize, err := intField(fields, "pageSize", 1)
	if err != nil {
		return PaginationDetails{}, err
	}
	totalItems, err := intField(fields, "totalItems", 0)
	if err != nil {
		return PaginationDetails{}, err
	}

	return NewPagination(page, pageSize, totalItems), nil
}

func intField(fields map[string]any, key string, def int) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidPagination, key)
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidPagination, key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidPagination, key)
	}
}
