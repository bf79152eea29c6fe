package handlers

// AppHandlers holds every HTTP handler of the API.
type AppHandlers struct {
	TeamHandler        *TeamHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	LedgerHandler      *LedgerHandler
	WebhookHandler     *WebhookHandler
	HealthHandler      *HealthHandler
}
