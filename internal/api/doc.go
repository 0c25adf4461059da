// Package api exposes the card collection and the practice session over
// HTTP. Handlers decode and validate JSON requests, call the card and review
// services, and translate service errors into status codes and sanitized
// messages.
package api
