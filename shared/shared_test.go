package shared_test

import (
	"testing"

	"condo/shared"
	"condo/shared/constant"
	"condo/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "valid true string", input: "true", expected: boolPtr(true)},
		{name: "valid false string", input: "false", expected: boolPtr(false)},
		{name: "valid 1 string", input: "1", expected: boolPtr(true)},
		{name: "valid 0 string", input: "0", expected: boolPtr(false)},
		{name: "invalid string returns nil", input: "not-a-bool", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}

				return
			}

			if got == nil || *got != *tt.expected {
				t.Errorf("expected %v, got %v", *tt.expected, got)
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 25, limit: 0, expected: 1},
		{name: "exact division", total: 20, limit: 10, expected: 2},
		{name: "rounds up", total: 21, limit: 10, expected: 3},
		{name: "single page", total: 3, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.CalculateTotalPage(tt.total, tt.limit); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Date   string `db:"date"`
		Start  string `db:"start_time"`
		Status string `db:"status"`
		NoTag  string
	}

	fields := shared.TransformFields(update{Date: "2025-06-01", Start: "09:00"}, "admin-1")

	if fields["date"] != "2025-06-01" {
		t.Errorf("expected date to be set, got %v", fields["date"])
	}

	if fields["start_time"] != "09:00" {
		t.Errorf("expected start_time to be set, got %v", fields["start_time"])
	}

	if _, ok := fields["status"]; ok {
		t.Error("expected zero-valued status to be skipped")
	}

	if fields[constant.FieldModifiedBy] != "admin-1" {
		t.Errorf("expected modified_by to be admin-1, got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be set")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("res-1", "id", "reservations")

	where, args := group.GetWhereClause()

	if where != "(reservations.id = :id)" {
		t.Errorf("unexpected where clause: %s", where)
	}

	if args["id"] != "res-1" {
		t.Errorf("expected id arg to be res-1, got %v", args["id"])
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("reservation:get"); got != "reservation:get" {
		t.Errorf("unexpected key: %s", got)
	}

	if got := shared.BuildCacheKey("reservation:get", "res-1"); got != "reservation:get:res-1" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	paramsA := dto.QueryParams{Page: 1, Limit: 10, SortBy: "date", SortDir: "ASC"}
	paramsB := dto.QueryParams{Page: 2, Limit: 10, SortBy: "date", SortDir: "ASC"}

	filter := shared.FilterByID("area-1", "area_id", "reservations")

	keyA := shared.BuildCacheKeyWithQuery("reservation:gets", paramsA, filter)
	keyB := shared.BuildCacheKeyWithQuery("reservation:gets", paramsB, filter)

	if keyA == keyB {
		t.Error("expected distinct pages to produce distinct cache keys")
	}
}

func boolPtr(b bool) *bool {
	return &b
}
