package dto_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"condo/shared/constant"
	"condo/shared/dto"
	"condo/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "admin-1",
		ModifiedBy: "admin-2",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "admin-1", metadata.CreatedBy)
	assert.Equal(t, "admin-2", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name: "with all valid parameters",
			queryParams: map[string]string{
				"page":     "2",
				"limit":    "20",
				"sort_by":  "date",
				"sort_dir": "ASC",
			},
			defaultRequest: false,
			expected: dto.QueryParams{
				Page:    2,
				Limit:   20,
				SortBy:  "date",
				SortDir: "ASC",
			},
		},
		{
			name:           "defaults applied when no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name:           "no defaults when disabled",
			queryParams:    map[string]string{},
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name: "invalid page falls back to default",
			queryParams: map[string]string{
				"page": "invalid",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name: "negative page falls back to default",
			queryParams: map[string]string{
				"page": "-1",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for key, value := range tt.queryParams {
				values.Set(key, value)
			}

			request := &http.Request{URL: &url.URL{RawQuery: values.Encode()}}

			params := dto.QueryParams{}
			params.FromRequest(request, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name       string
		filter     dto.Filter
		wantClause string
		wantArgs   map[string]any
	}{
		{
			name: "equality on a table column",
			filter: dto.Filter{
				Field:    "area_id",
				Operator: dto.FilterOperatorEq,
				Value:    "area-pool",
				Table:    "area_reservations",
			},
			wantClause: "area_reservations.area_id = :area_id",
			wantArgs:   map[string]any{"area_id": "area-pool"},
		},
		{
			name: "not-equal excludes cancelled rows",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorNotEq,
				Value:    "cancelled",
				Table:    "area_reservations",
			},
			wantClause: "area_reservations.status != :status",
			wantArgs:   map[string]any{"status": "cancelled"},
		},
		{
			name: "in with a slice expands named args",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorIn,
				Value:    []string{"pending", "confirmed"},
			},
			wantClause: "status IN (:status_0, :status_1) ",
			wantArgs:   map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    "area_id",
				Operator: dto.FilterOperatorEq,
				Value:    "area-pool",
				Table:    "area_reservations",
			},
			dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorNotEq,
				Value:    "cancelled",
				Table:    "area_reservations",
			},
		},
	}

	clause, args := group.GetWhereClause()

	assert.Equal(t, "(area_reservations.area_id = :area_id AND area_reservations.status != :status)", clause)
	assert.Equal(t, map[string]any{"area_id": "area-pool", "status": "cancelled"}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	clause, args := group.GetWhereClause()

	assert.Empty(t, clause)
	assert.Empty(t, args)
}
