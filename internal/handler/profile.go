package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/service"
)

// ProfileHandler serves profile CRUD, the experience/education list
// mutations, the cascading account delete, and the GitHub repo proxy.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

type profileRequest struct {
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// HandleMe returns the caller's own profile.
//
// HTTP: GET /api/profile/me
// Auth: required
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpsert creates or updates the caller's profile.
//
// HTTP: POST /api/profile
// Auth: required
// BODY: status and skills (comma-separated) required; everything else
// optional.
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if errs := checkRequest(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), userID, service.ProfileInput{
		Status:         req.Status,
		Skills:         req.Skills,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Social: model.SocialLinks{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleList returns all profiles.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleGetByUser returns one user's profile.
//
// HTTP: GET /api/profile/user/{userID}
func (h *ProfileHandler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetByUserID(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteAccount removes the caller's posts, profile, and account.
//
// HTTP: DELETE /api/profile
// Auth: required
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.profiles.DeleteAccount(r.Context(), userID); err != nil {
		h.logger.Error("account delete failed", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// HandleAddExperience prepends a work-history entry.
//
// HTTP: PUT /api/profile/experience
// Auth: required
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req experienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid experience JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if errs := checkRequest(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	exp := model.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Current:     req.Current,
		Description: req.Description,
	}

	from, err := parseDate(req.From)
	if err != nil {
		writeValidationErrors(w, []FieldError{{Field: "from", Message: "from must be a valid date"}})
		return
	}
	exp.From = from

	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			writeValidationErrors(w, []FieldError{{Field: "to", Message: "to must be a valid date"}})
			return
		}
		exp.To = &to
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, exp)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveExperience deletes a work-history entry by ID.
//
// HTTP: DELETE /api/profile/experience/{entryID}
// Auth: required
func (h *ProfileHandler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.RemoveExperience(r.Context(), userID, r.PathValue("entryID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleAddEducation prepends an education entry.
//
// HTTP: PUT /api/profile/education
// Auth: required
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req educationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid education JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if errs := checkRequest(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	edu := model.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		Current:      req.Current,
		Description:  req.Description,
	}

	from, err := parseDate(req.From)
	if err != nil {
		writeValidationErrors(w, []FieldError{{Field: "from", Message: "from must be a valid date"}})
		return
	}
	edu.From = from

	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			writeValidationErrors(w, []FieldError{{Field: "to", Message: "to must be a valid date"}})
			return
		}
		edu.To = &to
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, edu)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveEducation deletes an education entry by ID.
//
// HTTP: DELETE /api/profile/education/{entryID}
// Auth: required
func (h *ProfileHandler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.RemoveEducation(r.Context(), userID, r.PathValue("entryID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleGitHubRepos proxies a user's five most recent public repositories.
// GitHub's JSON is forwarded as-is.
//
// HTTP: GET /api/profile/github/{username}
func (h *ProfileHandler) HandleGitHubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.profiles.GitHubRepos(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repos)
}
