// Package api handles incoming HTTP requests for the post generator. It is
// the adapter between HTTP clients and the internal services: it charges the
// per-client quota, validates the request body, calls the post service and
// maps every failure onto a ClassifiedError with a safe public message.
package api
