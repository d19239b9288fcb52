package errors

import (
	"encoding/json"
	"net/http"
)

type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleHTTPError maps application errors onto HTTP responses. Storage
// errors and anything unrecognized surface as 500 without detail.
func HandleHTTPError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	switch e := err.(type) {
	case *BadRequestError:
		httpErr = &HTTPError{Code: http.StatusBadRequest, Message: e.Error()}
	case *ForbiddenError:
		httpErr = &HTTPError{Code: http.StatusForbidden, Message: e.Error()}
	case *NotFoundError:
		httpErr = &HTTPError{Code: http.StatusNotFound, Message: e.Error()}
	case *StateConflictError:
		httpErr = &HTTPError{Code: http.StatusConflict, Message: e.Error()}
	case *InsufficientBudgetError:
		httpErr = &HTTPError{Code: http.StatusUnprocessableEntity, Message: e.Error()}
	case *PoolExceededError:
		httpErr = &HTTPError{Code: http.StatusUnprocessableEntity, Message: e.Error()}
	case *SubawardCapError:
		httpErr = &HTTPError{Code: http.StatusUnprocessableEntity, Message: e.Error()}
	default:
		httpErr = &HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	json.NewEncoder(w).Encode(httpErr)
}
