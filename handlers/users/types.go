package users

import "viemind/services"

// UpdateProfileRequest model for partial profile updates; omitted fields are kept
type UpdateProfileRequest struct {
	FullName    *string   `json:"fullName" binding:"omitempty,min=2,max=100"`
	Bio         *string   `json:"bio" binding:"omitempty,max=2000"`
	Avatar      *string   `json:"avatar" binding:"omitempty,url"`
	GithubURL   *string   `json:"githubUrl" binding:"omitempty,url"`
	LinkedinURL *string   `json:"linkedinUrl" binding:"omitempty,url"`
	Skills      *[]string `json:"skills" binding:"omitempty,max=50,dive,max=50"`
}

func (r UpdateProfileRequest) update() services.ProfileUpdate {
	return services.ProfileUpdate{
		FullName:    r.FullName,
		Bio:         r.Bio,
		Avatar:      r.Avatar,
		GithubURL:   r.GithubURL,
		LinkedinURL: r.LinkedinURL,
		Skills:      r.Skills,
	}
}

// MessageResponse is a localized error message
type MessageResponse struct {
	Message string `json:"message"`
}
