package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"neoevents/auth"
	"neoevents/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// EventController exposes the event query and mutation endpoints. The
// listing endpoints are public; mutations require an admin token.
type EventController struct {
	eventService services.EventService
}

// NewEventController creates an EventController instance.
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// RegisterRoutes sets up the event routes on a go-restful WebService.
// The paths are fixed for client compatibility (note /eventGet/{event-id}).
func (ctl *EventController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/event").Filter(auth.AuthFilter()).Filter(auth.AdminFilter()).To(ctl.createEventHandler).
		Doc("Create an event").
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Reads(services.CreateEventInput{}).
		Returns(http.StatusCreated, "Event created", services.EventResponse{}).
		Returns(http.StatusBadRequest, "Validation failed", ErrorResponse{}).
		Returns(http.StatusForbidden, "Admin only", nil))

	ws.Route(ws.PUT("/event/{event-id}").Filter(auth.AuthFilter()).Filter(auth.AdminFilter()).To(ctl.updateEventHandler).
		Doc("Partially update an event; absent fields keep their stored values").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Reads(services.UpdateEventInput{}).
		Returns(http.StatusOK, "Event updated", services.EventResponse{}).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/event/{event-id}").Filter(auth.AuthFilter()).Filter(auth.AdminFilter()).To(ctl.deleteEventHandler).
		Doc("Delete an event and its saved/attending references").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusNoContent, "Event deleted", nil).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.GET("/eventGet/{event-id}").To(ctl.getEventHandler).
		Doc("Get one event by ID").
		Param(ws.PathParameter("event-id", "Identifier of the event").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Event found", services.EventResponse{}).
		Returns(http.StatusNotFound, "Event not found", ErrorResponse{}))

	ws.Route(ws.GET("/events").To(ctl.getEventsHandler).
		Doc("List upcoming events ordered by start time").
		Param(ws.QueryParameter("page", "Page number, 0-based (default 0)").DataType("integer").DefaultValue("0")).
		Param(ws.QueryParameter("size", "Events per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Events listed", services.PageResponse[services.EventResponse]{}))

	ws.Route(ws.GET("/event/filter").To(ctl.getFilteredEventsHandler).
		Doc("List upcoming events filtered by city and/or category; pass ALL to skip a dimension").
		Param(ws.QueryParameter("city", "City name or ALL").Required(true)).
		Param(ws.QueryParameter("category", "Category name or ALL").Required(true)).
		Param(ws.QueryParameter("page", "Page number, 0-based (default 0)").DataType("integer").DefaultValue("0")).
		Param(ws.QueryParameter("size", "Events per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Events listed", services.PageResponse[services.EventResponse]{}).
		Returns(http.StatusBadRequest, "Unknown city or category", ErrorResponse{}))

	ws.Route(ws.GET("/event/main").To(ctl.getMainEventsHandler).
		Doc("List upcoming main events ordered by priority, then start time").
		Param(ws.QueryParameter("page", "Page number, 0-based (default 0)").DataType("integer").DefaultValue("0")).
		Param(ws.QueryParameter("size", "Events per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Events listed", services.PageResponse[services.EventResponse]{}))

	ws.Route(ws.GET("/event/promoted").To(ctl.getPromotedEventsHandler).
		Doc("List upcoming promoted events ordered by priority, then start time").
		Param(ws.QueryParameter("page", "Page number, 0-based (default 0)").DataType("integer").DefaultValue("0")).
		Param(ws.QueryParameter("size", "Events per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Events listed", services.PageResponse[services.EventResponse]{}))

	ws.Route(ws.GET("/event/search").To(ctl.searchEventsHandler).
		Doc("Search upcoming events by name or description substring, case-insensitive").
		Param(ws.QueryParameter("search", "Search text").Required(true)).
		Param(ws.QueryParameter("page", "Page number, 0-based (default 0)").DataType("integer").DefaultValue("0")).
		Param(ws.QueryParameter("size", "Events per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"events"}).
		Returns(http.StatusOK, "Events listed", services.PageResponse[services.EventResponse]{}))
}

func (ctl *EventController) createEventHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateEventInput)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	event, err := ctl.eventService.CreateEvent(input)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	response.AddHeader("Location", fmt.Sprintf("/event/%d", event.ID))
	_ = response.WriteHeaderAndJson(http.StatusCreated, services.NewEventResponse(event), restful.MIME_JSON)
}

func (ctl *EventController) updateEventHandler(request *restful.Request, response *restful.Response) {
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateEventInput)
	if err := request.ReadEntity(input); err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	event, err := ctl.eventService.UpdateEvent(eventID, input)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, services.NewEventResponse(event), restful.MIME_JSON)
}

func (ctl *EventController) deleteEventHandler(request *restful.Request, response *restful.Response) {
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	if err := ctl.eventService.DeleteEvent(eventID); err != nil {
		writeServiceError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func (ctl *EventController) getEventHandler(request *restful.Request, response *restful.Response) {
	eventID, ok := parseEventID(request, response)
	if !ok {
		return
	}

	event, err := ctl.eventService.GetEvent(eventID)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, event, restful.MIME_JSON)
}

func (ctl *EventController) getEventsHandler(request *restful.Request, response *restful.Response) {
	page, size := pageParams(request)
	resp, err := ctl.eventService.GetEvents(page, size)
	if err != nil {
		writeServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, resp, restful.MIME_JSON)
}

func (ctl *EventController) getFilteredEventsHandler(request *restful.Request, response *restful.Response) {
	page, size := pageParams(request)
	city := request.QueryParameter("city")
	category := request.QueryParameter("category")

	resp, err := ctl.eventService.GetFilteredEvents(city, category, page, size)
	if err != nil {
		writeServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, resp, restful.MIME_JSON)
}

func (ctl *EventController) getMainEventsHandler(request *restful.Request, response *restful.Response) {
	page, size := pageParams(request)
	resp, err := ctl.eventService.GetMainEvents(page, size)
	if err != nil {
		writeServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, resp, restful.MIME_JSON)
}

func (ctl *EventController) getPromotedEventsHandler(request *restful.Request, response *restful.Response) {
	page, size := pageParams(request)
	resp, err := ctl.eventService.GetPromotedEvents(page, size)
	if err != nil {
		writeServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, resp, restful.MIME_JSON)
}

func (ctl *EventController) searchEventsHandler(request *restful.Request, response *restful.Response) {
	page, size := pageParams(request)
	search := request.QueryParameter("search")

	resp, err := ctl.eventService.SearchEvents(search, page, size)
	if err != nil {
		writeServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, resp, restful.MIME_JSON)
}

// --- Utility Functions ---

func parseEventID(request *restful.Request, response *restful.Response) (uint, bool) {
	idStr := request.PathParameter("event-id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeErrorMessages(response, http.StatusBadRequest, "Invalid event ID format")
		return 0, false
	}
	return uint(id), true
}

// pageParams reads the 0-based page number and page size, falling back to
// 0/10 for absent or unusable values.
func pageParams(request *restful.Request) (int, int) {
	page, err := strconv.Atoi(request.QueryParameter("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(request.QueryParameter("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}
