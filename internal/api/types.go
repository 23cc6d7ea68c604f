package api

import (
	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
)

// FinalizeRequest is the body of PUT /citas/{id}/finalizar.
type FinalizeRequest struct {
	NotaSubjetiva string `json:"nota_subjetiva"`
}

type HoursResponse struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	SlotSize int    `json:"slot_minutes"`
}

type PositionedResponse struct {
	Cita          appointment.Record      `json:"cita"`
	Destination   appointment.Destination `json:"destination"`
	Column        int                     `json:"column"`
	ColumnCount   int                     `json:"column_count"`
	TopPx         float64                 `json:"top_px"`
	HeightPx      float64                 `json:"height_px"`
	LeftFraction  float64                 `json:"left_fraction"`
	WidthFraction float64                 `json:"width_fraction"`
}

type DayResponse struct {
	Date        string               `json:"date"`
	ColumnCount int                  `json:"column_count"`
	Citas       []PositionedResponse `json:"citas"`
}

type FailureResponse struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

type WeekResponse struct {
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Hours        HoursResponse     `json:"hours"`
	GridHeightPx float64           `json:"grid_height_px"`
	Days         []DayResponse     `json:"days"`
	Failures     []FailureResponse `json:"failures,omitempty"`
}

type HistoryResponse struct {
	Citas    []appointment.Record `json:"citas"`
	Failures []FailureResponse    `json:"failures,omitempty"`
}

type DoctorResponse struct {
	ID             int64  `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol"`
	ShortName      string `json:"short_name"`
}

type SuggestionResponse struct {
	Date      string `json:"date"`
	DoctorID  int64  `json:"doctor_id"`
	Slot      string `json:"slot"`
	FechaHora string `json:"fecha_hora"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toWeekResponse(w agenda.WeekLayout, cellPx float64) WeekResponse {
	h := w.Week.Hours
	resp := WeekResponse{
		Start: w.Week.Start().String(),
		End:   w.Week.End().String(),
		Hours: HoursResponse{
			Open:     calendar.MinutesToClock(h.OpenMinute),
			Close:    calendar.MinutesToClock(h.CloseMinute),
			SlotSize: h.SlotSizeMinutes,
		},
		GridHeightPx: calendar.NewPixelScale(cellPx, h.SlotSizeMinutes).GridHeight(h),
		Days:         make([]DayResponse, len(w.Days)),
		Failures:     toFailures(w.Failures),
	}
	for i, d := range w.Days {
		day := DayResponse{
			Date:        d.Date.String(),
			ColumnCount: d.ColumnCount,
			Citas:       make([]PositionedResponse, 0, len(d.Appointments)),
		}
		for _, p := range d.Appointments {
			day.Citas = append(day.Citas, PositionedResponse{
				Cita:          appointment.ToRecord(p.Appointment),
				Destination:   p.Appointment.Status.Destination(),
				Column:        p.Column,
				ColumnCount:   p.ColumnCount,
				TopPx:         p.TopPx,
				HeightPx:      p.HeightPx,
				LeftFraction:  p.LeftFraction,
				WidthFraction: p.WidthFraction,
			})
		}
		resp.Days[i] = day
	}
	return resp
}

func toFailures(errs []agenda.RecordError) []FailureResponse {
	if len(errs) == 0 {
		return nil
	}
	out := make([]FailureResponse, len(errs))
	for i, e := range errs {
		out[i] = FailureResponse{ID: e.ID, Error: e.Err.Error()}
	}
	return out
}
