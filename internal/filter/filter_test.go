package filter

import (
	"slices"
	"testing"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

func flight(id, airline string, price float64, stops, minutes int) models.Flight {
	return models.Flight{
		ID:              id,
		Airline:         models.Airline{Code: airline, Name: airline + " Air"},
		Price:           models.Price{Amount: price, Currency: "USD"},
		Stops:           stops,
		DurationMinutes: minutes,
	}
}

func ids(flights []models.Flight) []string {
	out := make([]string, len(flights))
	for i, f := range flights {
		out[i] = f.ID
	}
	return out
}

var sample = []models.Flight{
	flight("a", "AA", 300, 0, 330),
	flight("b", "DL", 150, 1, 480),
	flight("c", "UA", 150, 0, 360),
	flight("d", "AA", 900, 2, 300),
}

func TestParseSortPreset(t *testing.T) {
	tests := []struct {
		in   string
		want SortPreset
		ok   bool
	}{
		{"", SortBest, true},
		{"best", SortBest, true},
		{" Cheapest ", SortCheapest, true},
		{"FASTEST", SortFastest, true},
		{"slowest", SortBest, false},
	}
	for _, tt := range tests {
		got, ok := ParseSortPreset(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSortPreset(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestSortCheapestIsStable(t *testing.T) {
	got := ids(Sort(sample, SortCheapest))
	want := []string{"b", "c", "a", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("cheapest = %v, want %v", got, want)
	}
}

func TestSortFastest(t *testing.T) {
	got := ids(Sort(sample, SortFastest))
	want := []string{"d", "a", "c", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("fastest = %v, want %v", got, want)
	}
}

func TestSortBest(t *testing.T) {
	// c is cheapest and close to fastest; d is fastest but the priciest.
	got := ids(Sort(sample, SortBest))
	want := []string{"c", "a", "b", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("best = %v, want %v", got, want)
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	before := ids(sample)
	Sort(sample, SortCheapest)
	Apply(sample, Options{PriceRange: [2]float64{0, 1000}, Sort: SortFastest})
	if !slices.Equal(ids(sample), before) {
		t.Errorf("input reordered: %v", ids(sample))
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "empty selections accept all",
			opts: Options{PriceRange: [2]float64{0, 10000}, Sort: SortCheapest},
			want: []string{"b", "c", "a", "d"},
		},
		{
			name: "price range excludes out-of-range flights",
			opts: Options{PriceRange: [2]float64{100, 500}, Sort: SortCheapest},
			want: []string{"b", "c", "a"},
		},
		{
			name: "price range is inclusive",
			opts: Options{PriceRange: [2]float64{150, 300}, Sort: SortCheapest},
			want: []string{"b", "c", "a"},
		},
		{
			name: "stops",
			opts: Options{PriceRange: [2]float64{0, 10000}, Stops: []int{0}, Sort: SortCheapest},
			want: []string{"c", "a"},
		},
		{
			name: "airlines",
			opts: Options{PriceRange: [2]float64{0, 10000}, Airlines: []string{"AA"}, Sort: SortFastest},
			want: []string{"d", "a"},
		},
		{
			name: "nothing matches",
			opts: Options{PriceRange: [2]float64{0, 10000}, Airlines: []string{"ZZ"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Apply(sample, tt.opts)); !slices.Equal(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildDomain(t *testing.T) {
	flights := []models.Flight{
		flight("a", "AA", 300, 1, 330),
		{ID: "b", Airline: models.Airline{Code: "DL", Name: "Delta"}, Price: models.Price{Amount: 0}, Stops: 0},
		flight("c", "AA", 120, 2, 360),
		{ID: "d", Airline: models.Airline{Code: "AA", Name: "American"}, Price: models.Price{Amount: 450}, Stops: 0},
	}

	d := BuildDomain(flights)
	if d.MinPrice != 120 || d.MaxPrice != 450 {
		t.Errorf("price bounds = %v..%v, want 120..450", d.MinPrice, d.MaxPrice)
	}
	if !slices.Equal(d.Stops, []int{0, 1, 2}) {
		t.Errorf("stops = %v", d.Stops)
	}
	want := []AirlineOption{{Code: "AA", Name: "American"}, {Code: "DL", Name: "Delta"}}
	if !slices.Equal(d.Airlines, want) {
		t.Errorf("airlines = %+v, want %+v", d.Airlines, want)
	}
}

func TestBuildDomainDefaults(t *testing.T) {
	d := BuildDomain(nil)
	if d.MinPrice != 0 || d.MaxPrice != 1000 || !slices.Equal(d.Stops, []int{0, 1, 2}) || len(d.Airlines) != 0 {
		t.Errorf("empty domain = %+v", d)
	}

	free := BuildDomain([]models.Flight{flight("a", "AA", 0, 0, 60)})
	if free.MinPrice != 0 || free.MaxPrice != 1000 || free.HasPrices {
		t.Errorf("zero-price domain = %+v", free)
	}
}

func TestStateToggles(t *testing.T) {
	s := NewState()
	if opts := s.Options(); opts.PriceRange != DefaultPriceRange || opts.Sort != SortBest {
		t.Fatalf("initial options = %+v", opts)
	}

	s.ToggleStop(0)
	s.ToggleStop(1)
	s.ToggleStop(0)
	s.ToggleAirline("AA")
	s.SetSort(SortFastest)

	opts := s.Options()
	if !slices.Equal(opts.Stops, []int{1}) {
		t.Errorf("stops = %v, want [1]", opts.Stops)
	}
	if !slices.Equal(opts.Airlines, []string{"AA"}) {
		t.Errorf("airlines = %v", opts.Airlines)
	}
	if opts.Sort != SortFastest {
		t.Errorf("sort = %v", opts.Sort)
	}

	opts.Airlines[0] = "XX"
	if s.Options().Airlines[0] != "AA" {
		t.Error("Options leaked internal slice")
	}

	s.Reset([2]float64{100, 200})
	opts = s.Options()
	if len(opts.Stops) != 0 || len(opts.Airlines) != 0 || opts.Sort != SortBest || opts.PriceRange != [2]float64{100, 200} {
		t.Errorf("after reset = %+v", opts)
	}
}

func TestStateSyncPriceRange(t *testing.T) {
	s := NewState()

	if s.SyncPriceRange(nil) {
		t.Error("synced on empty result set")
	}
	if !s.SyncPriceRange(sample) {
		t.Fatal("did not sync from default range")
	}
	if got := s.Options().PriceRange; got != [2]float64{150, 900} {
		t.Errorf("range = %v, want [150 900]", got)
	}

	if s.SyncPriceRange([]models.Flight{flight("x", "AA", 50, 0, 60)}) {
		t.Error("overwrote a range that was no longer the default")
	}

	s.SetPriceRange(200, 400)
	if got := s.Options().PriceRange; got != [2]float64{200, 400} {
		t.Errorf("range = %v", got)
	}
}

func TestSelectionKeepsTwoNewest(t *testing.T) {
	sel := NewSelection()
	a, b, c := sample[0], sample[1], sample[2]

	sel.Toggle(a)
	sel.Toggle(b)
	sel.Toggle(c)

	if got := ids(sel.Flights()); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("selection = %v, want [b c]", got)
	}
	if sel.IsSelected("a") {
		t.Error("oldest pick still selected")
	}

	sel.Toggle(b)
	if got := ids(sel.Flights()); !slices.Equal(got, []string{"c"}) {
		t.Errorf("after deselect = %v, want [c]", got)
	}

	sel.Clear()
	if len(sel.Flights()) != 0 {
		t.Error("Clear left flights selected")
	}
}
