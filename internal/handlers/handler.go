package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// APIPrefix is the path every RouteRegistrar is mounted under
const APIPrefix = "/api"

// RouteRegistrar is implemented by every API handler group. Routes are relative to APIPrefix.
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// APIRouter returns the subrouter API handler groups register on
func APIRouter(root *mux.Router) *mux.Router {
	return root.PathPrefix(APIPrefix).Subrouter()
}

// PathID parses the {id} route variable
func PathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid submission id %q", raw)
	}
	return id, nil
}
