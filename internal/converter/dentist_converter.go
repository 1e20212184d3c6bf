package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
)

func DentistToResponse(dentist *entity.User) *dto.DentistResponse {
	if dentist == nil {
		return nil
	}

	response := &dto.DentistResponse{
		ID:        dentist.ID,
		Email:     dentist.Email,
		Name:      dentist.DentistDisplayName(),
		FirstName: dentist.FirstName,
		LastName:  dentist.LastName,
		Phone:     dentist.Phone,
		IsActive:  dentist.Active(),
	}

	if dentist.DentistProfile != nil {
		response.LicenseNumber = dentist.DentistProfile.LicenseNumber
		response.Specialization = dentist.DentistProfile.Specialization
		response.Biography = dentist.DentistProfile.Biography
	}

	return response
}

func DentistsToResponses(dentists []entity.User) []dto.DentistResponse {
	responses := make([]dto.DentistResponse, len(dentists))
	for i := range dentists {
		responses[i] = *DentistToResponse(&dentists[i])
	}
	return responses
}
