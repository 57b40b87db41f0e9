// Package ticktick provides a client for the TickTick task API.
//
// The client uses the session-based v2 API for sign-on, full-state sync,
// and batch status updates, and the OAuth-protected Open API for task
// CRUD. OAuth tokens are cached on disk so the interactive authorization
// flow runs only once.
package ticktick
