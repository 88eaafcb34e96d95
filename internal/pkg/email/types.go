package email

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is the base payload shared by all templates.
type TemplateData struct {
	UserName     string
	Subject      string
	Message      string
	ActionURL    string
	ActionText   string
	SupportEmail string
	CompanyName  string
}

// LoadAlertData feeds the load_alert template sent to matched users.
type LoadAlertData struct {
	TemplateData
	LoadType     string
	PickupCity   string
	PickupZip    string
	DeliveryCity string
	PickupDate   string
	Rate         string
}

// RequestReceivedData feeds the template sent to a load owner when a
// carrier submits a request.
type RequestReceivedData struct {
	TemplateData
	CarrierName  string
	LoadRoute    string
	ProposedRate string
}

// RequestDecisionData feeds the template sent to a requester after the
// owner accepts or rejects.
type RequestDecisionData struct {
	TemplateData
	LoadRoute string
	Decision  string
	OwnerNote string
}

// WelcomeData feeds the welcome template after registration.
type WelcomeData struct {
	TemplateData
	UserRole string
}

// Config configures the SMTP sender.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TemplatePath string
}

// Sender sends transactional email. Implementations must be safe for
// concurrent use; the dispatcher fans out from multiple goroutines.
type Sender interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data interface{}) error
	SendLoadAlert(to, userName string, data LoadAlertData) error
	SendRequestReceived(to, userName string, data RequestReceivedData) error
	SendRequestDecision(to, userName string, data RequestDecisionData) error
	SendWelcome(to, userName, role string) error
}
