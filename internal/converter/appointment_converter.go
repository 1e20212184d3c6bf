package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Patient, dentist and treatment names are filled only when preloaded.
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DentistID:       a.DentistID,
		TreatmentID:     a.TreatmentID,
		AppointmentDate: a.AppointmentDate.Format("2006-01-02"),
		StartTime:       a.StartTime.String(),
		EndTime:         a.EndTime.String(),
		Time:            a.Interval().Display(),
		Status:          string(a.Status),
		Reason:          a.Reason,
		Notes:           a.Notes,
		ToothNumbers:    a.Teeth(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.Patient != nil {
		response.PatientName = a.Patient.FullName()
	}
	if a.Dentist != nil {
		response.DentistName = a.Dentist.DentistDisplayName()
	}
	if a.Treatment != nil {
		response.TreatmentName = a.Treatment.Name
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func TimeSlotToResponse(slot timeslot.Interval) dto.TimeSlotResponse {
	return dto.TimeSlotResponse{
		StartTime: slot.Start.String(),
		EndTime:   slot.End.String(),
		Display:   slot.Display(),
	}
}

func TimeSlotsToResponses(slots []timeslot.Interval) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = TimeSlotToResponse(slot)
	}
	return responses
}

func optionalSlot(slot *timeslot.Interval) *dto.TimeSlotResponse {
	if slot == nil {
		return nil
	}
	response := TimeSlotToResponse(*slot)
	return &response
}

func SuggestionsToResponse(set *service.SlotSuggestionSet) dto.SuggestionsResponse {
	response := dto.SuggestionsResponse{
		AlternativeDoctors: []dto.AlternativeDoctorResponse{},
		AvailableTimeSlots: []dto.TimeSlotResponse{},
	}
	if set == nil {
		return response
	}

	for _, doctor := range set.AlternativeDoctors {
		response.AlternativeDoctors = append(response.AlternativeDoctors, dto.AlternativeDoctorResponse{
			ID:        doctor.ID,
			Name:      doctor.Name,
			Available: doctor.Available,
		})
	}
	response.AvailableTimeSlots = TimeSlotsToResponses(set.AvailableTimeSlots)
	response.NextAvailableSlot = optionalSlot(set.NextAvailableSlot)

	return response
}

// ConflictToDetail describes the blocking appointment with 12h display times.
func ConflictToDetail(result *service.ConflictResult) dto.ConflictDetail {
	return dto.ConflictDetail{
		ExistingAppointment: dto.ExistingAppointmentResponse{
			PatientName: result.Existing.PatientDisplayName(),
			Time:        result.Existing.Interval().Display(),
		},
	}
}

func ConflictToResponse(result *service.ConflictResult, set *service.SlotSuggestionSet) *dto.ConflictResponse {
	return &dto.ConflictResponse{
		Conflict:    ConflictToDetail(result),
		Suggestions: SuggestionsToResponse(set),
	}
}

func AvailabilityToResponse(q service.SlotQuery, slots []timeslot.Interval, next *timeslot.Interval) *dto.AvailabilityResponse {
	return &dto.AvailabilityResponse{
		DentistID:          q.DentistID,
		Date:               q.Date.Format("2006-01-02"),
		AvailableTimeSlots: TimeSlotsToResponses(slots),
		NextAvailableSlot:  optionalSlot(next),
	}
}
