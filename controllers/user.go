package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"neoevents/auth"
	"neoevents/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// ProfileChangeRequest carries the editable profile fields.
type ProfileChangeRequest struct {
	NewName     string `json:"newName"`
	NewLastName string `json:"newLastName"`
}

// AvatarUpdateRequest selects one of the predefined avatars by index.
type AvatarUpdateRequest struct {
	AvatarID int `json:"avatarId"`
}

// PasswordChangeRequest carries a password change; the current password
// must match before the new one is stored.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserController exposes account management, saved/attending event
// relations and the event proposal upload. Every route requires a token.
type UserController struct {
	userService        services.UserService
	currentUserService services.CurrentUserService
	saveEventService   services.SaveEventService
	attendEventService services.AttendEventService
	submitEventService services.SubmitEventService
}

// NewUserController creates a UserController instance.
func NewUserController(
	userService services.UserService,
	currentUserService services.CurrentUserService,
	saveEventService services.SaveEventService,
	attendEventService services.AttendEventService,
	submitEventService services.SubmitEventService,
) *UserController {
	return &UserController{
		userService:        userService,
		currentUserService: currentUserService,
		saveEventService:   saveEventService,
		attendEventService: attendEventService,
		submitEventService: submitEventService,
	}
}

// RegisterRoutes sets up the user routes on a go-restful WebService.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/user").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Filter(auth.AuthFilter())

	ws.Route(ws.GET("/current").To(ctl.getCurrentUserHandler).
		Doc("Get the authenticated user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "User found", services.UserResponse{}).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/current").To(ctl.deleteCurrentUserHandler).
		Doc("Delete the authenticated user's account").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusNoContent, "Account deleted", nil))

	ws.Route(ws.PUT("/profile").To(ctl.updateProfileHandler).
		Doc("Change name and last name of the authenticated user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(ProfileChangeRequest{}).
		Returns(http.StatusOK, "Profile updated", services.UserResponse{}))

	ws.Route(ws.PUT("/avatar").To(ctl.updateAvatarHandler).
		Doc("Change the avatar of the authenticated user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(AvatarUpdateRequest{}).
		Returns(http.StatusOK, "Avatar updated", services.UserResponse{}))

	ws.Route(ws.PUT("/password").To(ctl.updatePasswordHandler).
		Doc("Change the password of the authenticated user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(PasswordChangeRequest{}).
		Returns(http.StatusOK, "Password updated", nil).
		Returns(http.StatusBadRequest, "Current password is incorrect", ErrorResponse{}))

	ws.Route(ws.PUT("/make-admin").Filter(auth.AdminFilter()).To(ctl.makeAdminHandler).
		Doc("Grant admin rights to a user by email").
		Param(ws.QueryParameter("email", "Email of the user to promote").Required(true)).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "User promoted", services.UserResponse{}).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}))

	ws.Route(ws.GET("/{user-id}").To(ctl.getUserHandler).
		Doc("Get a user by ID; allowed for the user themselves or an admin").
		Param(ws.PathParameter("user-id", "Identifier of the user").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "User found", services.UserResponse{}).
		Returns(http.StatusForbidden, "Not allowed", nil).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}))

	ws.Route(ws.PUT("/{user-id}").To(ctl.updateUserHandler).
		Doc("Update a user's name fields; allowed for the user themselves only").
		Param(ws.PathParameter("user-id", "Identifier of the user").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(ProfileChangeRequest{}).
		Returns(http.StatusOK, "User updated", services.UserResponse{}).
		Returns(http.StatusForbidden, "Not allowed", nil))

	ws.Route(ws.DELETE("/{user-id}").To(ctl.deleteUserHandler).
		Doc("Delete a user; allowed for the user themselves or an admin").
		Param(ws.PathParameter("user-id", "Identifier of the user").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusNoContent, "User deleted", nil).
		Returns(http.StatusForbidden, "Not allowed", nil))

	ws.Route(ws.POST("/save-event/{event-id}").To(ctl.saveEventHandler).
		Doc("Add an event to the authenticated user's saved list").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Event saved", nil).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/unsave-event/{event-id}").To(ctl.unsaveEventHandler).
		Doc("Remove an event from the authenticated user's saved list").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Event unsaved", nil).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.GET("/saved-events").To(ctl.getSavedEventsHandler).
		Doc("List the authenticated user's saved events").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Saved events listed", []services.EventResponse{}))

	ws.Route(ws.POST("/attend-event/{event-id}").To(ctl.attendEventHandler).
		Doc("Mark the authenticated user as attending an event").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Attendance recorded", nil).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/unattend-event/{event-id}").To(ctl.unattendEventHandler).
		Doc("Remove the authenticated user's attendance from an event").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Attendance removed", nil).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.GET("/attending-events").To(ctl.getAttendingEventsHandler).
		Doc("List the events the authenticated user attends").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusOK, "Attending events listed", []services.EventResponse{}))

	ws.Route(ws.POST("/submit-event").Consumes("multipart/form-data").To(ctl.submitEventHandler).
		Doc("Submit an event proposal with optional images; forwarded to the administrators by email").
		Param(ws.FormParameter("event", "Proposal as a JSON document").Required(true)).
		Param(ws.FormParameter("images", "Image attachments").DataType("file")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Returns(http.StatusAccepted, "Proposal accepted", nil).
		Returns(http.StatusBadRequest, "Malformed proposal", ErrorResponse{}))
}

func (ctl *UserController) getCurrentUserHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	user, err := ctl.currentUserService.Current(email)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) deleteCurrentUserHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	if err := ctl.currentUserService.DeleteCurrent(email); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func (ctl *UserController) getUserHandler(request *restful.Request, response *restful.Response) {
	userID, ok := parseUserID(request, response)
	if !ok {
		return
	}

	requesterID, _ := auth.RequestingUserID(request)
	if requesterID != userID && !auth.IsAdminRequest(request) {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	user, err := ctl.userService.GetUserByID(userID)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) updateUserHandler(request *restful.Request, response *restful.Response) {
	userID, ok := parseUserID(request, response)
	if !ok {
		return
	}

	requesterID, _ := auth.RequestingUserID(request)
	if requesterID != userID {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	input := new(ProfileChangeRequest)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := ctl.userService.UpdateUserByID(userID, input.NewName, input.NewLastName)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) deleteUserHandler(request *restful.Request, response *restful.Response) {
	userID, ok := parseUserID(request, response)
	if !ok {
		return
	}

	requesterID, _ := auth.RequestingUserID(request)
	if requesterID != userID && !auth.IsAdminRequest(request) {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	if err := ctl.userService.DeleteUserByID(userID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func (ctl *UserController) updateProfileHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	input := new(ProfileChangeRequest)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := ctl.userService.UpdateProfile(email, input.NewName, input.NewLastName)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) updateAvatarHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	input := new(AvatarUpdateRequest)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := ctl.userService.UpdateAvatar(email, input.AvatarID)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) updatePasswordHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	input := new(PasswordChangeRequest)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := ctl.userService.UpdatePassword(email, input.CurrentPassword, input.NewPassword); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (ctl *UserController) makeAdminHandler(request *restful.Request, response *restful.Response) {
	email := request.QueryParameter("email")
	if email == "" {
		writeErrorMessages(response, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := ctl.userService.MakeAdminByEmail(email)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewUserResponse(user), restful.MIME_JSON)
}

func (ctl *UserController) saveEventHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	if err := ctl.saveEventService.SaveEvent(email, eventID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (ctl *UserController) unsaveEventHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	if err := ctl.saveEventService.UnsaveEvent(email, eventID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (ctl *UserController) getSavedEventsHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	events, err := ctl.saveEventService.GetSavedEvents(email)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, events, restful.MIME_JSON)
}

func (ctl *UserController) attendEventHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	if err := ctl.attendEventService.AttendEvent(email, eventID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (ctl *UserController) unattendEventHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	if err := ctl.attendEventService.UnattendEvent(email, eventID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (ctl *UserController) getAttendingEventsHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	events, err := ctl.attendEventService.GetAttendingEvents(email)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, events, restful.MIME_JSON)
}

func (ctl *UserController) submitEventHandler(request *restful.Request, response *restful.Response) {
	email, _ := auth.RequestingEmail(request)

	user, err := ctl.currentUserService.Current(email)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	if err := request.Request.ParseMultipartForm(32 << 20); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return
	}

	payload := request.Request.FormValue("event")
	if payload == "" {
		writeErrorMessages(response, http.StatusBadRequest, "Event proposal is required")
		return
	}

	proposal := new(services.EventProposal)
	if err := json.Unmarshal([]byte(payload), proposal); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid event proposal: "+err.Error())
		return
	}

	var images []services.ProposalImage
	if request.Request.MultipartForm != nil {
		for _, header := range request.Request.MultipartForm.File["images"] {
			images = append(images, multipartImage{header: header})
		}
	}

	if err := ctl.submitEventService.SubmitProposal(user, proposal, images); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusAccepted)
}

// multipartImage adapts an uploaded file to the proposal image interface.
type multipartImage struct {
	header *multipart.FileHeader
}

func (m multipartImage) Filename() string { return m.header.Filename }

func (m multipartImage) Open() (io.ReadCloser, error) {
	f, err := m.header.Open()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseUserID(request *restful.Request, response *restful.Response) (uint, bool) {
	idStr := request.PathParameter("user-id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid user ID format")
		return 0, false
	}
	return uint(id), true
}
