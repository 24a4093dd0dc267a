package middlewares

import "github.com/geocoder89/cityevents/internal/http/respond"

const (
	CtxRequestID = respond.RequestIDKey
	CtxPrincipal = "auth.principal"
)
