package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

func weekHandler(svc *agenda.Service, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := dateutil.ParseRelativeDate(r.URL.Query().Get("date"), dateutil.Today(now()))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		layout, err := svc.Week(r.Context(), ref)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWeekResponse(layout, svc.Controller().CellHeightPx()))
	}
}

func suggestHandler(svc *agenda.Service, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		day, err := dateutil.ParseRelativeDate(q.Get("date"), dateutil.Today(now()))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		doctorID, err := strconv.ParseInt(q.Get("doctor_id"), 10, 64)
		if err != nil || doctorID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a positive integer")
			return
		}
		duration := appointment.DefaultDurationMinutes
		if v := q.Get("duracion_minutos"); v != "" {
			duration, err = strconv.Atoi(v)
			if err != nil || duration <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duracion_minutos must be a positive integer")
				return
			}
		}

		layout, err := svc.Week(r.Context(), day)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		idx := layout.Week.DayIndex(day)
		slot, ok := svc.Controller().SuggestSlot(layout.Days[idx], doctorID, duration)
		if !ok {
			writeError(w, http.StatusNotFound, "no_free_slot", "doctor has no free slot that day")
			return
		}

		writeJSON(w, http.StatusOK, SuggestionResponse{
			Date:      day.String(),
			DoctorID:  doctorID,
			Slot:      calendar.MinutesToClock(slot),
			FechaHora: wallclock.Format(wallclock.New(day, slot)),
		})
	}
}

func createAppointmentHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appointment.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		start, err := wallclock.Parse(req.FechaHora)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_fecha_hora", err.Error())
			return
		}

		appt, err := svc.Create(r.Context(), agenda.CreateInput{
			Day:             start.Date(),
			SlotMinute:      start.MinuteOfDay(),
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			DurationMinutes: req.DuracionMinutos,
			Reason:          req.Motivo,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appointment.ToRecord(appt))
	}
}

func getAppointmentHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointment.ToRecord(appt))
	}
}

type transition func(r *http.Request, id int64) (appointment.Appointment, error)

// transitionHandler serves the status change endpoints that need no body.
func transitionHandler(fn transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := fn(r, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointment.ToRecord(appt))
	}
}

func startChange(svc *agenda.Service) transition {
	return func(r *http.Request, id int64) (appointment.Appointment, error) {
		return svc.Start(r.Context(), id)
	}
}

func cancelChange(svc *agenda.Service) transition {
	return func(r *http.Request, id int64) (appointment.Appointment, error) {
		return svc.Cancel(r.Context(), id)
	}
}

func noShowChange(svc *agenda.Service) transition {
	return func(r *http.Request, id int64) (appointment.Appointment, error) {
		return svc.NoShow(r.Context(), id)
	}
}

func finalizeHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		var req FinalizeRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
		}

		appt, err := svc.Finalize(r.Context(), id, req.NotaSubjetiva)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointment.ToRecord(appt))
	}
}

func patientHistoryHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be an integer")
			return
		}

		appts, failures, err := svc.PatientHistory(r.Context(), patientID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := HistoryResponse{
			Citas:    make([]appointment.Record, len(appts)),
			Failures: toFailures(failures),
		}
		for i, a := range appts {
			resp.Citas[i] = appointment.ToRecord(a)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func doctorsHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]DoctorResponse, len(doctors))
		for i, d := range doctors {
			resp[i] = DoctorResponse{
				ID:             d.ID,
				NombreCompleto: d.DisplayName,
				Rol:            d.Role,
				ShortName:      d.ShortName(),
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrValidation),
		errors.Is(err, wallclock.ErrTimeParse):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, appointment.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
