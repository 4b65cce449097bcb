package service

import "errors"

// Sentinel errors shared by the onboarding services. Handlers map these to
// HTTP statuses; everything else surfaces as an internal error.
var (
	// ErrProfileNotFound indicates no onboarding record exists for the student.
	ErrProfileNotFound = errors.New("student profile not found")
	// ErrSignatureMismatch indicates a payment callback failed local signature
	// verification. Treated as a potential tamper attempt and always audited.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrGateway indicates the payment gateway call itself failed.
	ErrGateway = errors.New("payment gateway request failed")
	// ErrInvalidTransition indicates a hostel lifecycle transition that the
	// state machine does not permit.
	ErrInvalidTransition = errors.New("invalid hostel status transition")
	// ErrEmailTaken indicates an enrollment attempt with an email already on
	// the roster.
	ErrEmailTaken = errors.New("a student with this email already exists")
)
