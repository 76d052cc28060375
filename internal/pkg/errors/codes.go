package errors

import "net/http"

var (
	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Charging station not found",
		http.StatusNotFound,
	)

	ErrSurfaceNotFound = New(
		"SURFACE_NOT_FOUND",
		"No stations have been applied to this surface",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidAmount = New(
		"INVALID_AMOUNT",
		"Amount must be a positive number",
		http.StatusBadRequest,
	)

	ErrInsufficientCoins = New(
		"INSUFFICIENT_COINS",
		"Not enough Spark Coins",
		http.StatusUnprocessableEntity,
	)

	ErrPaymentSessionNotFound = New(
		"PAYMENT_SESSION_NOT_FOUND",
		"Payment session not found",
		http.StatusNotFound,
	)

	ErrInvalidPaymentTransition = New(
		"INVALID_PAYMENT_TRANSITION",
		"Payment session cannot move to the requested state",
		http.StatusConflict,
	)

	ErrPaymentSessionClosed = New(
		"PAYMENT_SESSION_CLOSED",
		"Payment session is closed",
		http.StatusGone,
	)

	ErrInvalidUPIPayload = New(
		"INVALID_UPI_PAYLOAD",
		"Content is not a UPI payment payload",
		http.StatusBadRequest,
	)

	ErrBookingNotFound = New(
		"BOOKING_NOT_FOUND",
		"Booking not found",
		http.StatusNotFound,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrUpstreamError = New(
		"UPSTREAM_ERROR",
		"Upstream service request failed",
		http.StatusBadGateway,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
