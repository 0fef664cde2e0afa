package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID:                   "query-fuel-prices",
				DisplayName:          "Query Fuel Prices",
				Category:             "fuel",
				TaskType:             "query-fuel-prices",
				ImplementationStatus: StatusCompleted,
				Timeout:              "3s",
			},
			{
				ID:          "book-consultation",
				DisplayName: "Book Consultation",
				Category:    "consultation",
				TaskType:    "book-consultation",
			},
		},
	}
}

func TestLoadRegistry_Bundled(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Len(t, reg.Activities, 11)
	activity, ok := reg.Find("check-question-quota")
	require.True(t, ok)
	assert.Equal(t, "drivebot", activity.Category)
	assert.Contains(t, activity.ErrorCodes, "QUOTA_CHECK_FAILED")
	assert.Equal(t, FieldSpec{Type: "string", Required: true}, activity.InputSchema["sessionId"])
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := sampleRegistry()

	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Activities, loaded.Activities)
}

func TestActivityRegistry_Add(t *testing.T) {
	reg := sampleRegistry()

	err := reg.Add(Activity{ID: "query-fuel-prices"})
	assert.EqualError(t, err, "activity with ID query-fuel-prices already exists")

	require.NoError(t, reg.Add(Activity{ID: "search-car-models", TaskType: "search-car-models"}))
	assert.Len(t, reg.Activities, 3)
	assert.NotEmpty(t, reg.LastUpdated)
}

func TestActivityRegistry_Update(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr string
		check   func(t *testing.T, a *Activity)
	}{
		{
			name:  "status",
			field: "status", value: StatusVerified,
			check: func(t *testing.T, a *Activity) { assert.Equal(t, StatusVerified, a.ImplementationStatus) },
		},
		{
			name:  "retries",
			field: "retries", value: "3",
			check: func(t *testing.T, a *Activity) { assert.Equal(t, 3, a.Retries) },
		},
		{
			name:  "timeout",
			field: "timeout", value: "7s",
			check: func(t *testing.T, a *Activity) { assert.Equal(t, "7s", a.Timeout) },
		},
		{name: "bad status", field: "status", value: "done", wantErr: "invalid status: done"},
		{name: "bad retries", field: "retries", value: "many", wantErr: "invalid retries value"},
		{name: "bad timeout", field: "timeout", value: "soon", wantErr: "invalid timeout value"},
		{name: "unknown field", field: "owner", value: "x", wantErr: "unknown field: owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			err := reg.Update("query-fuel-prices", tt.field, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			activity, _ := reg.Find("query-fuel-prices")
			tt.check(t, activity)
		})
	}
}

func TestActivityRegistry_UpdateUnknownID(t *testing.T) {
	err := sampleRegistry().Update("missing", "status", StatusPlanned)
	assert.EqualError(t, err, "activity with ID missing not found")
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(r *ActivityRegistry) {}},
		{
			name:    "empty",
			mutate:  func(r *ActivityRegistry) { r.Activities = nil },
			wantErr: "registry contains no activities",
		},
		{
			name:    "duplicate id",
			mutate:  func(r *ActivityRegistry) { r.Activities[1].ID = "query-fuel-prices" },
			wantErr: "duplicate activity ID: query-fuel-prices",
		},
		{
			name:    "duplicate task type",
			mutate:  func(r *ActivityRegistry) { r.Activities[1].TaskType = "query-fuel-prices" },
			wantErr: "duplicate task type: query-fuel-prices",
		},
		{
			name:    "missing category",
			mutate:  func(r *ActivityRegistry) { r.Activities[0].Category = "" },
			wantErr: "activity query-fuel-prices missing required field: Category",
		},
		{
			name: "unknown field type",
			mutate: func(r *ActivityRegistry) {
				r.Activities[0].InputSchema = map[string]FieldSpec{"city": {Type: "text"}}
			},
			wantErr: `activity query-fuel-prices input city has unknown type "text"`,
		},
		{
			name:    "bad timeout",
			mutate:  func(r *ActivityRegistry) { r.Activities[0].Timeout = "3 seconds" },
			wantErr: `activity query-fuel-prices has invalid timeout "3 seconds"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
