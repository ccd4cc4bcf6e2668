package dto

import (
	"encoding/json"
	"testing"

	dom "Tasker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_Presence(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		set   bool
		null  bool
		value string
	}{
		{"absent", `{}`, false, false, ""},
		{"null", `{"title":null}`, true, true, ""},
		{"empty", `{"title":""}`, true, false, ""},
		{"value", `{"title":"Buy milk"}`, true, false, "Buy milk"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.set, req.Title.Set)
			assert.Equal(t, tc.null, req.Title.Null)
			assert.Equal(t, tc.value, req.Title.Value)
		})
	}
}

func TestOptional_WrongType(t *testing.T) {
	var req UpdateTaskRequest
	err := json.Unmarshal([]byte(`{"title":5}`), &req)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestUpdateTaskRequest_Patch(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed","description":null}`), &req))

	patch := req.Patch()
	assert.Nil(t, patch.Title)
	require.NotNil(t, patch.Description)
	assert.Equal(t, "", *patch.Description)
	require.NotNil(t, patch.Status)
	assert.Equal(t, dom.StatusCompleted, *patch.Status)
}

func TestNewTaskResponse_OmitsMissingRating(t *testing.T) {
	b, err := json.Marshal(NewTaskResponse(dom.Task{ID: "1", Title: "x", Status: dom.StatusPending}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "rating")

	rating := 4
	b, err = json.Marshal(NewTaskResponse(dom.Task{ID: "1", Title: "x", Status: dom.StatusPending, Rating: &rating}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rating":4`)
}

func TestNewListTasksData_Empty(t *testing.T) {
	b, err := json.Marshal(NewListTasksData(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"count":0}`, string(b))
}
