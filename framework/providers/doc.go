// Package providers contains the service providers every application
// registers: configuration, logging and the deferred inspection handler.
package providers
