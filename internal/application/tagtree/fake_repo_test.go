package tagtree

import (
	"cmp"
	"context"
	"slices"
	"time"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

type fakeTour struct {
	id       int64
	start    time.Time
	title    string
	typeID   int64
	distance float64
	moving   int64
	elapsed  int64
	climb    int64
	sensors  fakeSensors
	tags     []int64
}

// fakeSensors holds the per-tour readings. Zero means no reading.
type fakeSensors struct {
	pulse, cadence, temperature float64
	maxPulse, maxSpeed, maxAlt  float64
}

// totals is the detail row of a single tour.
func (t *fakeTour) totals() domain.Totals {
	return domain.Totals{
		Distance:           t.distance,
		MovingTime:         t.moving,
		ElapsedTime:        t.elapsed,
		RecordedTime:       t.moving,
		AltitudeUp:         t.climb,
		AltitudeDown:       t.climb,
		MaxPulse:           t.sensors.maxPulse,
		MaxSpeed:           t.sensors.maxSpeed,
		MaxAltitude:        t.sensors.maxAlt,
		AvgPulse:           t.sensors.pulse,
		AvgCadence:         t.sensors.cadence,
		AvgTemperature:     t.sensors.temperature,
		PulseSamples:       reading(t.sensors.pulse),
		CadenceSamples:     reading(t.sensors.cadence),
		TemperatureSamples: reading(t.sensors.temperature),
	}
}

func reading(v float64) int64 {
	if v != 0 {
		return 1
	}
	return 0
}

// aggregate totals a group of tours the way the database does: sums and
// maxima over all of them, sensor means over the tours with a reading.
func aggregate(tours []*fakeTour) domain.Totals {
	var out domain.Totals
	var pulse, cadence, temperature float64
	for _, t := range tours {
		row := t.totals()
		out.Distance += row.Distance
		out.MovingTime += row.MovingTime
		out.ElapsedTime += row.ElapsedTime
		out.RecordedTime += row.RecordedTime
		out.AltitudeUp += row.AltitudeUp
		out.AltitudeDown += row.AltitudeDown
		out.MaxPulse = max(out.MaxPulse, row.MaxPulse)
		out.MaxSpeed = max(out.MaxSpeed, row.MaxSpeed)
		out.MaxAltitude = max(out.MaxAltitude, row.MaxAltitude)
		pulse += row.AvgPulse
		cadence += row.AvgCadence
		temperature += row.AvgTemperature
		out.PulseSamples += row.PulseSamples
		out.CadenceSamples += row.CadenceSamples
		out.TemperatureSamples += row.TemperatureSamples
		out.TourCount++
	}
	out.AvgPulse = mean(pulse, out.PulseSamples)
	out.AvgCadence = mean(cadence, out.CadenceSamples)
	out.AvgTemperature = mean(temperature, out.TemperatureSamples)
	return out
}

func mean(sum float64, n int64) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// fakeRepo is an in-memory StatisticsRepository with per-method failure
// injection.
type fakeRepo struct {
	cats      []domain.Category
	catParent map[int64]int64
	tags      []domain.Tag
	tagCats   map[int64][]int64
	tours     map[int64]*fakeTour
	fail      map[string]error
	calls     map[string]int
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

// newFakeRepo builds:
//
//	Sport (category 1)
//	  Running (category 2)
//	    Races (tag 10, flat): 101, 103
//	  Bike (tag 12, year-day): 103, 104
//	Commute (tag 3, year-month-day): 101, 102
//	Empty (tag 11, flat)
//
// Tours 105 and 106 carry no tags.
func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		cats: []domain.Category{
			{ID: 1, Name: "Sport", IsRoot: true},
			{ID: 2, Name: "Running"},
		},
		catParent: map[int64]int64{2: 1},
		tags: []domain.Tag{
			{ID: 3, Name: "Commute", IsRoot: true, ExpandType: domain.ExpandYearMonthDay},
			{ID: 10, Name: "Races", ExpandType: domain.ExpandFlat},
			{ID: 11, Name: "Empty", IsRoot: true, ExpandType: domain.ExpandFlat},
			{ID: 12, Name: "Bike", ExpandType: domain.ExpandYearDay},
		},
		tagCats: map[int64][]int64{10: {2}, 12: {1}},
		tours:   make(map[int64]*fakeTour),
		fail:    make(map[string]error),
		calls:   make(map[string]int),
	}

	for _, t := range []*fakeTour{
		{id: 101, start: day(2022, 3, 5), title: "Morning", distance: 10000, moving: 3600, elapsed: 4000, climb: 120,
			sensors: fakeSensors{pulse: 140, cadence: 82, maxPulse: 171, maxSpeed: 31, maxAlt: 410}, tags: []int64{3, 10}},
		{id: 102, start: day(2022, 3, 20), title: "Evening", distance: 5000, moving: 1800, elapsed: 1900, climb: 40,
			sensors: fakeSensors{maxSpeed: 24, maxAlt: 380}, tags: []int64{3}},
		{id: 103, start: day(2022, 7, 1), title: "Half Marathon", distance: 21000, moving: 7200, elapsed: 7500, climb: 210,
			sensors: fakeSensors{pulse: 150, cadence: 88, temperature: 18, maxPulse: 183, maxSpeed: 19, maxAlt: 520}, tags: []int64{10, 12}},
		{id: 104, start: day(2023, 1, 10), title: "Long Ride", distance: 42000, moving: 14400, elapsed: 15000, climb: 900,
			sensors: fakeSensors{pulse: 130, temperature: 5, maxPulse: 166, maxSpeed: 52, maxAlt: 1340}, tags: []int64{12}},
		{id: 105, start: day(2021, 5, 1), title: "Trail", distance: 8000, moving: 2400, elapsed: 2500, climb: 350,
			sensors: fakeSensors{pulse: 125, maxPulse: 160, maxSpeed: 14, maxAlt: 900}},
		{id: 106, start: day(2023, 2, 11), title: "Snow", distance: 3000, moving: 1200, elapsed: 1300,
			sensors: fakeSensors{pulse: 170, temperature: -4, maxPulse: 188, maxSpeed: 12, maxAlt: 1100}},
	} {
		r.tours[t.id] = t
	}
	return r
}

func (r *fakeRepo) tag(tagID int64, tourIDs ...int64) {
	for _, id := range tourIDs {
		t := r.tours[id]
		if !slices.Contains(t.tags, tagID) {
			t.tags = append(t.tags, tagID)
		}
	}
}

func (r *fakeRepo) untag(tagID int64, tourIDs ...int64) {
	for _, id := range tourIDs {
		t := r.tours[id]
		if i := slices.Index(t.tags, tagID); i >= 0 {
			t.tags = slices.Delete(t.tags, i, i+1)
		}
	}
}

func (r *fakeRepo) call(name string) error {
	r.calls[name]++
	return r.fail[name]
}

func (r *fakeRepo) RootCategories(ctx context.Context) ([]domain.Category, error) {
	if err := r.call("RootCategories"); err != nil {
		return nil, err
	}
	var out []domain.Category
	for _, c := range r.cats {
		if c.IsRoot {
			out = append(out, c)
		}
	}
	return sortedByName(out, func(c domain.Category) string { return c.Name }), nil
}

func (r *fakeRepo) RootTags(ctx context.Context) ([]domain.Tag, error) {
	if err := r.call("RootTags"); err != nil {
		return nil, err
	}
	var out []domain.Tag
	for _, t := range r.tags {
		if t.IsRoot {
			out = append(out, t)
		}
	}
	return sortedByName(out, func(t domain.Tag) string { return t.Name }), nil
}

func (r *fakeRepo) AllTags(ctx context.Context) ([]domain.Tag, error) {
	if err := r.call("AllTags"); err != nil {
		return nil, err
	}
	return sortedByName(slices.Clone(r.tags), func(t domain.Tag) string { return t.Name }), nil
}

func (r *fakeRepo) SubCategories(ctx context.Context, categoryID int64) ([]domain.Category, error) {
	if err := r.call("SubCategories"); err != nil {
		return nil, err
	}
	var out []domain.Category
	for _, c := range r.cats {
		if p, ok := r.catParent[c.ID]; ok && p == categoryID {
			out = append(out, c)
		}
	}
	return sortedByName(out, func(c domain.Category) string { return c.Name }), nil
}

func (r *fakeRepo) CategoryTags(ctx context.Context, categoryID int64) ([]domain.Tag, error) {
	if err := r.call("CategoryTags"); err != nil {
		return nil, err
	}
	var out []domain.Tag
	for _, t := range r.tags {
		if slices.Contains(r.tagCats[t.ID], categoryID) {
			out = append(out, t)
		}
	}
	return sortedByName(out, func(t domain.Tag) string { return t.Name }), nil
}

func (r *fakeRepo) Aggregate(ctx context.Context, q ports.AggregateQuery) ([]ports.AggregateRow, error) {
	if err := r.call("Aggregate"); err != nil {
		return nil, err
	}

	groups := make(map[int64][]*fakeTour)
	var order []int64
	add := func(group int64, t *fakeTour) {
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], t)
	}

	for _, t := range r.sortedTours() {
		if len(q.TourIDs) > 0 && !slices.Contains(q.TourIDs, t.id) {
			continue
		}
		switch q.Level {
		case domain.VariantCategory:
			for _, c := range q.CategoryIDs {
				if r.inCategory(t, c) {
					add(c, t)
				}
			}
		case domain.VariantTag:
			for _, tag := range q.TagIDs {
				if slices.Contains(t.tags, tag) {
					add(tag, t)
				}
			}
		case domain.VariantYear:
			if slices.Contains(t.tags, q.TagID) {
				add(int64(t.start.Year()), t)
			}
		case domain.VariantMonth:
			if slices.Contains(t.tags, q.TagID) && t.start.Year() == q.Year {
				add(int64(t.start.Month()), t)
			}
		}
	}

	slices.Sort(order)
	rows := make([]ports.AggregateRow, 0, len(order))
	for _, g := range order {
		row := ports.AggregateRow{Totals: aggregate(groups[g])}
		switch q.Level {
		case domain.VariantCategory:
			row.CategoryID = g
		case domain.VariantTag:
			row.TagID = g
		case domain.VariantYear:
			row.Year = int(g)
		case domain.VariantMonth:
			row.Month = int(g)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeRepo) Details(ctx context.Context, q ports.DetailQuery) ([]ports.DetailRow, error) {
	if err := r.call("Details"); err != nil {
		return nil, err
	}

	var rows []ports.DetailRow
	for _, t := range r.sortedTours() {
		if !slices.Contains(t.tags, q.TagID) {
			continue
		}
		if q.Year != 0 && t.start.Year() != q.Year {
			continue
		}
		if q.Month != 0 && int(t.start.Month()) != q.Month {
			continue
		}
		if len(q.TourIDs) > 0 && !slices.Contains(q.TourIDs, t.id) {
			continue
		}
		tags := slices.Sorted(slices.Values(t.tags))
		for _, tag := range tags {
			rows = append(rows, ports.DetailRow{
				TourID: t.id,
				Start:  t.start,
				Title:  t.title,
				TypeID: t.typeID,
				TagID:  tag,
				Totals: t.totals(),
			})
		}
	}
	return rows, nil
}

func (r *fakeRepo) inCategory(t *fakeTour, categoryID int64) bool {
	for _, tag := range t.tags {
		for _, c := range r.tagCats[tag] {
			for cur, ok := c, true; ok; cur, ok = r.catParent[cur] {
				if cur == categoryID {
					return true
				}
			}
		}
	}
	return false
}

func (r *fakeRepo) sortedTours() []*fakeTour {
	out := make([]*fakeTour, 0, len(r.tours))
	for _, t := range r.tours {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *fakeTour) int {
		if c := a.start.Compare(b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func sortedByName[T any](items []T, name func(T) string) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(name(a), name(b)) })
	return items
}

type recordingObserver struct {
	fetches  int
	failures int
	patched  []string
	live     int
}

func (o *recordingObserver) FetchDone(_ domain.Variant, _ time.Duration, err error) {
	o.fetches++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) Patched(event string) { o.patched = append(o.patched, event) }
func (o *recordingObserver) NodesLive(n int)      { o.live = n }
