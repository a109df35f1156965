package worker

import (
	"github.com/spec-kit/helpdesk-admin/internal/service"
)

// StartAuditWorker registers audit event handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
