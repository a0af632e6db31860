// Package server provides a Gin-backed HTTP server with the
// access-control middleware wired in front of every route. It handles
// listener setup, HTTP/2 cleartext support, and graceful shutdown so
// applications only register routes and a policy.
package server
