package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
)

func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		ID:              treatment.ID,
		Name:            treatment.Name,
		Description:     treatment.Description,
		Price:           treatment.Price,
		DurationMinutes: treatment.DurationMinutes,
		IsActive:        treatment.Active(),
		CreatedAt:       treatment.CreatedAt,
		UpdatedAt:       treatment.UpdatedAt,
	}
}

func TreatmentsToResponses(treatments []entity.Treatment) []dto.TreatmentResponse {
	responses := make([]dto.TreatmentResponse, len(treatments))
	for i := range treatments {
		responses[i] = *TreatmentToResponse(&treatments[i])
	}
	return responses
}
