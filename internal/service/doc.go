// Package service provides the card management operations: adding,
// editing, postponing, deleting and bulk-importing cards.
//
// Services sit between the transport layer and the stores. They translate
// store errors into the sentinels declared in errors.go, normalise incoming
// records through the domain package and run multi-step writes inside a
// single transaction. Practice-session orchestration lives in the review
// subpackage.
package service
