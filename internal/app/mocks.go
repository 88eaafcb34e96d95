package app

import "loadlink_backend/internal/pkg/email"

// MockEmailSender is used for tests and local development when the
// email channel is disabled.
type MockEmailSender struct{}

func (m *MockEmailSender) Send(e *email.Email) error { return nil }
func (m *MockEmailSender) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	return nil
}
func (m *MockEmailSender) SendLoadAlert(to, userName string, data email.LoadAlertData) error {
	return nil
}
func (m *MockEmailSender) SendRequestReceived(to, userName string, data email.RequestReceivedData) error {
	return nil
}
func (m *MockEmailSender) SendRequestDecision(to, userName string, data email.RequestDecisionData) error {
	return nil
}
func (m *MockEmailSender) SendWelcome(to, userName, role string) error { return nil }
