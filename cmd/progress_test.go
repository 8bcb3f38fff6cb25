package cmd

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/marcus/darktalk/pkg/dialog"
)

type recordingSink struct {
	updates []int
	removed int
}

func (s *recordingSink) SetProgress(d *dialog.Dialog, percent int) {
	s.updates = append(s.updates, percent)
}

func (s *recordingSink) Remove(d *dialog.Dialog) {
	s.removed++
}

func newProgressDialog(t *testing.T) *dialog.Dialog {
	t.Helper()
	return dialog.NewManager(nil).Progress("Copying", "", dialog.Options{}).Dialog
}

func TestFeedProgress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantUpdates []int
		wantRemoved int
	}{
		{
			name:        "stops at completion",
			input:       "10\n50%\n100\n120\n",
			wantUpdates: []int{10, 50, 100},
		},
		{
			name:        "skips junk and blank lines",
			input:       "5\n\nabc\n 7 % \n",
			wantUpdates: []int{5, 7},
			wantRemoved: 1,
		},
		{
			name:        "early end removes",
			input:       "",
			wantRemoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			sink := &recordingSink{}
			lines := scanLines(ctx, strings.NewReader(tt.input))
			if err := feedProgress(ctx, sink, newProgressDialog(t), lines); err != nil {
				t.Fatalf("feedProgress: %v", err)
			}
			if ctx.Err() != nil {
				t.Fatal("feedProgress timed out")
			}
			if !reflect.DeepEqual(sink.updates, tt.wantUpdates) {
				t.Errorf("updates = %v, want %v", sink.updates, tt.wantUpdates)
			}
			if sink.removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", sink.removed, tt.wantRemoved)
			}
		})
	}
}

func TestFeedProgressStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	lines := make(chan string)
	if err := feedProgress(ctx, sink, newProgressDialog(t), lines); err != nil {
		t.Fatalf("feedProgress: %v", err)
	}
	if len(sink.updates) != 0 || sink.removed != 0 {
		t.Errorf("sink = %+v, want untouched", sink)
	}
}
