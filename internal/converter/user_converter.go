package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes DentistProfile if it is loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Phone:     user.Phone,
		Role:      user.Role.RoleName,
		IsActive:  user.Active(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	// Role is not always preloaded
	if response.Role == "" {
		response.Role = entity.RoleNameByID(user.RoleID)
	}

	if user.DentistProfile != nil {
		response.DentistProfile = &dto.DentistProfileResponse{
			LicenseNumber:  user.DentistProfile.LicenseNumber,
			Specialization: user.DentistProfile.Specialization,
			Biography:      user.DentistProfile.Biography,
		}
	}

	return response
}
