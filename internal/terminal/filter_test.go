package terminal

import (
	"reflect"
	"testing"

	"github.com/sitais/devon/internal/client"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		events []client.Event
		want   []client.Event
	}{
		{
			name:   "nil input",
			events: nil,
			want:   []client.Event{},
		},
		{
			name:   "empty input",
			events: []client.Event{},
			want:   []client.Event{},
		},
		{
			name: "keeps only environment events in order",
			events: []client.Event{
				{Kind: client.KindUserRequest, Content: "fix the bug"},
				{Kind: client.KindEnvironmentRequest, Content: "ls"},
				{Kind: client.KindModelResponse, Content: "looking around"},
				{Kind: client.KindEnvironmentResponse, Content: "a.txt"},
				{Kind: "ToolRequest", Content: "edit"},
				{Kind: client.KindEnvironmentRequest, Content: "pwd"},
			},
			want: []client.Event{
				{Kind: client.KindEnvironmentRequest, Content: "ls"},
				{Kind: client.KindEnvironmentResponse, Content: "a.txt"},
				{Kind: client.KindEnvironmentRequest, Content: "pwd"},
			},
		},
		{
			name: "unknown kinds dropped",
			events: []client.Event{
				{Kind: "SomethingNew", Content: "x"},
				{Kind: "Task", Content: "y"},
			},
			want: []client.Event{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.events)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}
