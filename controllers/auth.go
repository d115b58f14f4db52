package controllers

import (
	"net/http"

	"neoevents/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// AuthController exposes registration and login.
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates an AuthController instance.
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// AuthResponse carries the bearer token issued on register/login.
type AuthResponse struct {
	Token string `json:"token"`
}

// RegisterRoutes sets up the /auth routes on a go-restful WebService.
func (ctl *AuthController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/auth").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/register").To(ctl.registerHandler).
		Doc("Register a new account").
		Metadata(restfulspec.KeyOpenAPITags, []string{"auth"}).
		Reads(services.RegisterInput{}).
		Returns(http.StatusOK, "Registered", AuthResponse{}).
		Returns(http.StatusBadRequest, "Validation failed or email taken", ErrorResponse{}))

	ws.Route(ws.POST("/authenticate").To(ctl.authenticateHandler).
		Doc("Log in with email and password").
		Metadata(restfulspec.KeyOpenAPITags, []string{"auth"}).
		Reads(services.AuthenticateInput{}).
		Returns(http.StatusOK, "Authenticated", AuthResponse{}).
		Returns(http.StatusBadRequest, "Invalid credentials", ErrorResponse{}))
}

func (ctl *AuthController) registerHandler(request *restful.Request, response *restful.Response) {
	input := new(services.RegisterInput)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, err := ctl.authService.Register(input)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, AuthResponse{Token: token}, restful.MIME_JSON)
}

func (ctl *AuthController) authenticateHandler(request *restful.Request, response *restful.Response) {
	input := new(services.AuthenticateInput)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, err := ctl.authService.Authenticate(input)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, AuthResponse{Token: token}, restful.MIME_JSON)
}
