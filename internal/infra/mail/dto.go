package mail

type WelcomeEmailData struct {
	Name        string
	ManagerName string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
