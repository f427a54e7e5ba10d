package core

import "github.com/google/uuid"

// InvokeFrom identifies the surface a task was started from. It determines
// the ownership prefix recorded next to the task, nothing more; authorization
// is an external concern.
type InvokeFrom string

const (
	// InvokeFromWebApp marks runs started from the published web application.
	InvokeFromWebApp InvokeFrom = "web_app"
	// InvokeFromDebugger marks runs started from the authoring debugger.
	InvokeFromDebugger InvokeFrom = "debugger"
	// InvokeFromServiceAPI marks runs started through the service API.
	InvokeFromServiceAPI InvokeFrom = "service_api"
	// InvokeFromEndUser marks runs started by an end-user context.
	InvokeFromEndUser InvokeFrom = "end_user"
)

// TaskOwner renders the bookkeeping owner record for a task: accounts for
// first-party surfaces, end-users for everything else.
func (f InvokeFrom) TaskOwner(userID uuid.UUID) string {
	if f == InvokeFromWebApp || f == InvokeFromDebugger {
		return "account-" + userID.String()
	}
	return "end-user-" + userID.String()
}
