package organizations

import "viemind/services"

// CreateOrganizationRequest model for creating an organization
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Website     string `json:"website" binding:"omitempty,url"`
	Logo        string `json:"logo" binding:"omitempty,url"`
	Description string `json:"description"`
	Industry    string `json:"industry" binding:"max=100"`
}

// UpdateOrganizationRequest model for partial organization updates
type UpdateOrganizationRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Logo        *string `json:"logo" binding:"omitempty,url"`
	Description *string `json:"description"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
}

func (r UpdateOrganizationRequest) update() services.OrganizationUpdate {
	return services.OrganizationUpdate{
		Name:        r.Name,
		Website:     r.Website,
		Logo:        r.Logo,
		Description: r.Description,
		Industry:    r.Industry,
	}
}

// MessageResponse is a localized error message
type MessageResponse struct {
	Message string `json:"message"`
}
