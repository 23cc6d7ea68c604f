package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

type fakeStore struct {
	users    map[int64]string
	patients []int64
	records  map[int64]*appointment.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]string{}, records: map[int64]*appointment.Record{}}
}

func (f *fakeStore) CreatePatient(_ context.Context, _ int64, _ string) (int64, error) {
	id := int64(len(f.patients) + 1)
	f.patients = append(f.patients, id)
	return id, nil
}

func (f *fakeStore) CreateUser(_ context.Context, _ int64, _, role string) (int64, error) {
	id := int64(len(f.users) + 1)
	f.users[id] = role
	return id, nil
}

func (f *fakeStore) Create(_ context.Context, _ int64, req appointment.CreateRequest) (appointment.Record, error) {
	id := int64(len(f.records) + 1)
	rec := appointment.Record{
		ID:              id,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		FechaHora:       req.FechaHora,
		Motivo:          req.Motivo,
		DuracionMinutos: req.DuracionMinutos,
		Estado:          appointment.StatusScheduled.Wire(),
	}
	f.records[id] = &rec
	return rec, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _, id int64, from, to appointment.Status) error {
	rec, ok := f.records[id]
	if !ok {
		return appointment.ErrNotFound
	}
	if rec.Estado != from.Wire() {
		return fmt.Errorf("stale status %s", rec.Estado)
	}
	if _, err := appointment.Transition(from, eventFor(to), appointment.Guard{HasNote: true}); err != nil {
		return err
	}
	rec.Estado = to.Wire()
	return nil
}

func eventFor(to appointment.Status) appointment.Event {
	switch to {
	case appointment.StatusInProgress:
		return appointment.EventStart
	case appointment.StatusFinished:
		return appointment.EventFinalize
	case appointment.StatusCancelled:
		return appointment.EventCancel
	default:
		return appointment.EventNoShow
	}
}

func TestRun(t *testing.T) {
	store := newFakeStore()
	friday := dateutil.NewDate(2024, 5, 10)

	res, err := Run(context.Background(), store, Options{
		TenantID:     1,
		Patients:     20,
		Doctors:      3,
		Appointments: 200,
		Week:         friday,
		Seed:         42,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Patients != 20 || res.Doctors != 3 || res.Staff != 1 || res.Appointments != 200 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(store.records) != 200 {
		t.Fatalf("stored %d appointments", len(store.records))
	}

	clinical := 0
	for _, role := range store.users {
		if role == appointment.RoleDentist || role == appointment.RoleDoctor {
			clinical++
		}
	}
	if clinical != 3 {
		t.Errorf("expected 3 clinical users, got %d", clinical)
	}

	week := calendar.ComputeWeek(friday, calendar.DefaultHours())
	byStatus := map[appointment.Status]int{}
	for _, r := range store.records {
		a, err := r.Parse()
		if err != nil {
			t.Fatalf("seeded record %d does not parse: %v", r.ID, err)
		}
		idx := week.DayIndex(a.Start.Date())
		if idx < 1 {
			t.Errorf("appointment %d on %s, want Monday to Saturday of %s", a.ID, a.Start.Date(), week)
		}
		if m := a.StartMinute(); m < calendar.DefaultOpenMinute || m >= calendar.DefaultCloseMinute {
			t.Errorf("appointment %d starts at %s", a.ID, calendar.MinutesToClock(m))
		}
		if _, ok := store.users[a.DoctorID]; !ok {
			t.Errorf("appointment %d has unknown doctor %d", a.ID, a.DoctorID)
		}
		byStatus[a.Status]++
	}

	for s, n := range res.ByStatus {
		if byStatus[s] != n {
			t.Errorf("status %s: result says %d, store has %d", s, n, byStatus[s])
		}
	}
	if byStatus[appointment.StatusScheduled] == 0 {
		t.Error("expected some scheduled appointments")
	}
}

func TestRun_Deterministic(t *testing.T) {
	opts := Options{TenantID: 1, Patients: 5, Doctors: 2, Appointments: 30, Week: dateutil.NewDate(2024, 5, 10), Seed: 7}

	a, b := newFakeStore(), newFakeStore()
	if _, err := Run(context.Background(), a, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), b, opts); err != nil {
		t.Fatal(err)
	}
	for id, ra := range a.records {
		if rb := b.records[id]; *ra != *rb {
			t.Errorf("record %d differs: %+v vs %+v", id, *ra, *rb)
		}
	}
}

func TestRun_NeedsPeople(t *testing.T) {
	if _, err := Run(context.Background(), newFakeStore(), Options{Doctors: 1}); err == nil {
		t.Error("expected error without patients")
	}
}
