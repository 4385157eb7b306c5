package domain

import "time"

// AuditKind classifies an authentication audit event.
type AuditKind string

const (
	AuditSignInSucceeded AuditKind = "signin_succeeded"
	AuditSignInFailed    AuditKind = "signin_failed"
	AuditSignInThrottled AuditKind = "signin_throttled"
	AuditSignUpSucceeded AuditKind = "signup_succeeded"
	AuditSignUpRejected  AuditKind = "signup_rejected"
	AuditRoleCreated     AuditKind = "role_created"
)

// AuditEvent records something the auth core did. It never carries credential material.
type AuditEvent struct {
	Kind       AuditKind
	Username   string
	Detail     string
	RequestID  string
	OccurredAt time.Time
}
