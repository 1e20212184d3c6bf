package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:        patient.ID,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		FullName:  patient.FullName(),
		Phone:     patient.Phone,
		Email:     patient.Email,
		Gender:    patient.Gender,
		Address:   patient.Address,
		IsActive:  patient.IsActive != nil && *patient.IsActive,
		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	}

	if patient.DateOfBirth != nil {
		response.DateOfBirth = patient.DateOfBirth.Format("2006-01-02")
	}

	return response
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
