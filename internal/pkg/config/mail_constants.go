package config

// MailTypeSMTP delivers e-mails through an SMTP relay
const MailTypeSMTP = "smtp"

// MailTypeLog writes e-mails to the application logger instead of sending them
const MailTypeLog = "log"
