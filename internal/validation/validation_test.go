package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/model"
)

func TestStruct_Task(t *testing.T) {
	tests := []struct {
		name      string
		task      model.Task
		wantField string
		wantMsg   string
	}{
		{name: "valid", task: model.Task{Title: "Buy milk", DueDate: "2024-05-01"}},
		{name: "blank title", task: model.Task{Title: "   "}, wantField: "title", wantMsg: "title is required"},
		{name: "bad due date", task: model.Task{Title: "x", DueDate: "05/01/2024"}, wantField: "due_date", wantMsg: "due_date must match YYYY-MM-DD"},
		{name: "bad priority", task: model.Task{Title: "x", Priority: "urgent"}, wantField: "priority", wantMsg: "priority must be one of [low medium high]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.task)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.wantField)
			assert.Contains(t, verr.Message, tt.wantMsg)
		})
	}
}

func TestStruct_Event(t *testing.T) {
	err := Struct(model.Event{Title: "Dentist", Date: "2024-02-30x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date must match YYYY-MM-DD")

	err = Struct(model.Event{Title: "Dentist", Date: "2024-02-10", Time: "9am"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time must match HH:MM")

	assert.NoError(t, Struct(model.Event{Title: "Dentist", Date: "2024-02-10", Time: "09:30"}))
}

func TestStruct_Video(t *testing.T) {
	err := Struct(model.Video{VideoFormData: model.VideoFormData{Title: "Alien"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filename is required")

	err = Struct(model.Video{VideoFormData: model.VideoFormData{Filename: "a.mkv", Title: "Alien", Score: 11}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score must be at most 10")
}

func TestStruct_DecisionOptions(t *testing.T) {
	err := Struct(model.CommonDecision{Title: "Dinner", Options: []string{"pizza"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options must be at least 2")

	assert.NoError(t, Struct(model.CommonDecision{Title: "Dinner", Options: []string{"pizza", "tacos"}}))
}
