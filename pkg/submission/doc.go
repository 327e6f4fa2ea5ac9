// Package submission is the boundary between an assembled form and the host
// that persists it. Build gates on validity and produces the payload handed
// to a SubmitFunc; MapErrors turns a server error payload back into
// field-level and form-level messages.
package submission
