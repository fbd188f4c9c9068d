package reminder

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func tod(h, m int) TimeOfDay { return TimeOfDay{Hour: h, Minute: m} }

func TestPlanInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		windows  []Window
		want     []TimeOfDay
	}{
		{
			name:     "half-open boundary",
			interval: 30,
			windows:  []Window{{Start: 9 * 60, End: 10 * 60}},
			want:     []TimeOfDay{tod(9, 0), tod(9, 30)},
		},
		{
			name:     "uneven interval keeps trailing time",
			interval: 45,
			windows:  []Window{{Start: 6 * 60, End: 8 * 60}},
			want:     []TimeOfDay{tod(6, 0), tod(6, 45), tod(7, 30)},
		},
		{
			name:     "overlapping windows keep duplicates",
			interval: 60,
			windows: []Window{
				{Start: 9 * 60, End: 11 * 60},
				{Start: 10 * 60, End: 12 * 60},
			},
			want: []TimeOfDay{tod(9, 0), tod(10, 0), tod(10, 0), tod(11, 0)},
		},
		{
			name:     "window to midnight",
			interval: 90,
			windows:  []Window{{Start: 21 * 60, End: 24 * 60}},
			want:     []TimeOfDay{tod(21, 0), tod(22, 30)},
		},
		{
			name:     "non-positive interval",
			interval: 0,
			windows:  []Window{{Start: 0, End: 240}},
			want:     nil,
		},
		{
			name:     "no windows",
			interval: 15,
			windows:  nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanInterval(tt.interval, tt.windows)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_DefaultConfig(t *testing.T) {
	got := Plan(DefaultConfig())
	// 6 AM to 9 PM every 15 minutes.
	if len(got) != 15*4 {
		t.Fatalf("len(Plan(default)) = %d, want 60", len(got))
	}
	if got[0] != tod(6, 0) || got[len(got)-1] != tod(20, 45) {
		t.Errorf("Plan(default) spans %v..%v", got[0], got[len(got)-1])
	}
}

func TestPlan_Custom(t *testing.T) {
	times := []TimeOfDay{tod(7, 0), tod(19, 30)}
	got := Plan(Config{Mode: CustomMode{Times: times}})
	if !reflect.DeepEqual(got, times) {
		t.Errorf("Plan(custom) = %v", got)
	}
	got[0] = tod(1, 1)
	if times[0] != tod(7, 0) {
		t.Error("Plan(custom) aliased its input")
	}
}

func TestToAbsoluteInstants(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2025, 1, 6, 9, 15, 0, 0, loc)

	got := ToAbsoluteInstants([]TimeOfDay{tod(9, 0), tod(9, 15), tod(9, 30), tod(0, 0)}, now)
	want := []time.Time{
		time.Date(2025, 1, 7, 9, 0, 0, 0, loc),
		time.Date(2025, 1, 7, 9, 15, 0, 0, loc), // equal to now rolls forward
		time.Date(2025, 1, 6, 9, 30, 0, 0, loc),
		time.Date(2025, 1, 7, 0, 0, 0, 0, loc),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("instant[%d] = %v, want %v", i, got[i], want[i])
		}
		if !got[i].After(now) {
			t.Errorf("instant[%d] = %v not after now", i, got[i])
		}
	}
}

func TestCustomTimeEditing(t *testing.T) {
	times := AddCustomTime(nil, tod(7, 0))
	times = AddCustomTime(times, tod(19, 30))
	times = AddCustomTime(times, tod(7, 0))
	if !reflect.DeepEqual(times, []TimeOfDay{tod(7, 0), tod(19, 30)}) {
		t.Fatalf("AddCustomTime() = %v", times)
	}

	times = RemoveCustomTime(times, tod(7, 0))
	if !reflect.DeepEqual(times, []TimeOfDay{tod(19, 30)}) {
		t.Errorf("RemoveCustomTime() = %v", times)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "07:05", want: tod(7, 5)},
		{in: "23:59", want: tod(23, 59)},
		{in: " 9:30 ", want: tod(9, 30)},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "default ok", cfg: DefaultConfig()},
		{name: "nil mode", cfg: Config{}, field: "mode"},
		{name: "no windows", cfg: Config{Mode: IntervalMode{IntervalMinutes: 15}}, field: "windows"},
		{name: "unknown window", cfg: Config{Mode: IntervalMode{IntervalMinutes: 15, Windows: []WindowID{"1-2"}}}, field: "windows"},
		{name: "zero interval", cfg: Config{Mode: IntervalMode{Windows: DefaultWindowIDs()}}, field: "interval"},
		{name: "no custom times", cfg: Config{Mode: CustomMode{}}, field: "times"},
		{name: "bad custom time", cfg: Config{Mode: CustomMode{Times: []TimeOfDay{tod(25, 0)}}}, field: "times"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("Validate() error = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestWindowTable(t *testing.T) {
	ws := Windows()
	if len(ws) != 7 {
		t.Fatalf("len(Windows()) = %d", len(ws))
	}
	for _, w := range ws {
		if w.Start >= w.End {
			t.Errorf("window %s is empty", w.ID)
		}
	}
	if w, ok := LookupWindow("21-24"); !ok || w.End != minutesPerDay {
		t.Errorf("LookupWindow(21-24) = %+v, %v", w, ok)
	}
	if got := DefaultWindowIDs(); !reflect.DeepEqual(got, []WindowID{"6-9", "9-12", "12-15", "15-18", "18-21"}) {
		t.Errorf("DefaultWindowIDs() = %v", got)
	}
}
