package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

type UserController struct {
	service service_interfaces.UserService
}

func NewUserController(service service_interfaces.UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.HandlerFunc(c.handleCollection)
	item := http.HandlerFunc(c.handleItem)
	if authMiddleware != nil {
		collection = authMiddleware(collection).ServeHTTP
		item = authMiddleware(item).ServeHTTP
	}

	mux.Handle("/users", http.HandlerFunc(collection))
	mux.Handle("/users/", http.HandlerFunc(item))
}

func (c *UserController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.listUsers(w, r)
	case http.MethodPost:
		c.createUser(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.UserResponse]("method not allowed"))
	}
}

func (c *UserController) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, commons.ErrorResponse[models.UserResponse]("not found"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.getUser(w, r, id)
	case http.MethodPut:
		c.updateUser(w, r, id)
	case http.MethodDelete:
		c.deleteUser(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.UserResponse]("method not allowed"))
	}
}

func (c *UserController) createUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateUser(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *UserController) getUser(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetUser(r.Context(), id)
	if err != nil {
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) listUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListUsers(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateUser(r.Context(), id, req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.DeleteUser(r.Context(), id)
	if err != nil {
		status := statusForError(err)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
